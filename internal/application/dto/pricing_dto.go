package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetRateRequest entrada para fijar la tarifa de un par (contraparte, producto).
type SetRateRequest struct {
	CounterpartyID string          `json:"counterparty_id"`
	ProductID      string          `json:"product_id"`
	Rate           decimal.Decimal `json:"rate"`
}

// PriceResponse una tarifa vigente, enriquecida con los datos del producto
// para el editor de precios.
type PriceResponse struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Rate        decimal.Decimal `json:"rate"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
