package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributorPrice es la tarifa de compra acordada con un distribuidor para
// un producto. Única por par (distribuidor, producto); al fijarla de nuevo se
// reemplaza el valor anterior, sin histórico.
type DistributorPrice struct {
	ID            string
	DistributorID string
	ProductID     string
	Rate          decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PartyPrice es la tarifa de venta acordada con un cliente para un producto.
// Misma semántica de unicidad y reemplazo que DistributorPrice.
type PartyPrice struct {
	ID        string
	PartyID   string
	ProductID string
	Rate      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
