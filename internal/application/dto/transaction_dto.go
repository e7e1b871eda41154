package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostItemRequest una línea a registrar: producto, cantidad (> 0) y tarifa
// unitaria (>= 0) ya resuelta por el llamador.
type PostItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
}

// PostTransactionRequest entrada para registrar una compra o una venta.
// Date nil usa la fecha actual. CounterpartyID referencia un distribuidor
// (compras) o un cliente (ventas).
type PostTransactionRequest struct {
	Type           string            `json:"type"` // purchase | sale
	CounterpartyID string            `json:"counterparty_id"`
	Date           *time.Time        `json:"date,omitempty"`
	InvoiceNumber  string            `json:"invoice_number,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Items          []PostItemRequest `json:"items"`
}

// LineItemResponse salida de una línea registrada.
type LineItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	LineNo    int             `json:"line_no"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
	Amount    decimal.Decimal `json:"amount"`
}

// TransactionResponse salida de una transacción confirmada.
type TransactionResponse struct {
	ID             string             `json:"id"`
	Type           string             `json:"type"`
	Number         string             `json:"number"`
	CounterpartyID string             `json:"counterparty_id"`
	Date           time.Time          `json:"date"`
	InvoiceNumber  string             `json:"invoice_number,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	Items          []LineItemResponse `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
}
