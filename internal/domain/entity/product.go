package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// El stock actual nunca se guarda aquí: se deriva siempre del libro de
// movimientos (LedgerEntry) sumando los deltas del producto.
type Product struct {
	ID           string
	SKU          string // código único
	Name         string
	Description  string
	Unit         string          // unidad de medida: pcs, kg, ltr...
	HSNCode      string          // código HSN/SAC para facturación
	TaxRate      decimal.Decimal // porcentaje de impuesto (GST), >= 0
	ReorderLevel decimal.Decimal // umbral de stock bajo; 0 desactiva la alerta
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
