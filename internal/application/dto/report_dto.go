package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter acota un informe de transacciones. Límites inclusivos sobre
// la fecha del documento; campos nil/vacíos no filtran.
type ReportFilter struct {
	From           *time.Time `json:"from,omitempty"`
	To             *time.Time `json:"to,omitempty"`
	CounterpartyID string     `json:"counterparty_id,omitempty"`
}

// ReportItemDTO una línea dentro de una fila del informe.
type ReportItemDTO struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// ReportRowDTO una transacción del informe con sus líneas resueltas.
type ReportRowDTO struct {
	Number           string          `json:"number"`
	Date             time.Time       `json:"date"`
	CounterpartyName string          `json:"counterparty_name"`
	InvoiceNumber    string          `json:"invoice_number,omitempty"`
	ItemCount        int             `json:"item_count"`
	Items            []ReportItemDTO `json:"items"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// TradeReportDTO informe completo de compras o de ventas: filas de más
// reciente a más antigua y resumen agregado.
type TradeReportDTO struct {
	TxType      string          `json:"tx_type"` // purchase | sale
	From        *time.Time      `json:"from,omitempty"`
	To          *time.Time      `json:"to,omitempty"`
	Rows        []ReportRowDTO  `json:"rows"`
	TxCount     int             `json:"tx_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
