package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción comercial.
const (
	TxTypePurchase = "purchase" // compra a distribuidor, suma stock
	TxTypeSale     = "sale"     // venta a cliente, resta stock
)

// Prefijos de numeración de documentos por tipo (PUR000001, SAL000001...).
const (
	NumberPrefixPurchase = "PUR"
	NumberPrefixSale     = "SAL"
)

// ValidTxType indica si t es un tipo de transacción soportado.
func ValidTxType(t string) bool {
	return t == TxTypePurchase || t == TxTypeSale
}

// NumberPrefix devuelve el prefijo de documento del tipo dado ("" si no es válido).
func NumberPrefix(txType string) string {
	switch txType {
	case TxTypePurchase:
		return NumberPrefixPurchase
	case TxTypeSale:
		return NumberPrefixSale
	}
	return ""
}

// Transaction representa la cabecera de una compra o una venta.
// CounterpartyID referencia un Distributor (compras) o un Party (ventas).
// Number lo asigna la numeración secuencial al confirmar y nunca se reutiliza,
// ni siquiera si la transacción se borra después.
type Transaction struct {
	ID             string
	Type           string // TxTypePurchase | TxTypeSale
	Number         string // PUR000001, SAL000042...
	CounterpartyID string
	Date           time.Time // fecha del documento
	InvoiceNumber  string    // número de factura externa, opcional
	Notes          string
	TotalAmount    decimal.Decimal
	Items          []LineItem // líneas en orden, propiedad exclusiva de la cabecera
	CreatedAt      time.Time
}

// LineItem representa una línea de detalle de una transacción.
// Borrar la cabecera borra sus líneas; las líneas no existen sueltas.
type LineItem struct {
	ID            string
	TransactionID string
	ProductID     string
	LineNo        int             // posición dentro de la transacción, desde 1
	Quantity      decimal.Decimal // > 0
	Rate          decimal.Decimal // >= 0
	Amount        decimal.Decimal // Quantity * Rate
}
