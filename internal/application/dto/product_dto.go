package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	HSNCode      string          `json:"hsn_code"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// UpdateProductRequest entrada para actualizar un producto.
// Campos nil se dejan como están (actualización parcial).
type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Unit         *string          `json:"unit"`
	HSNCode      *string          `json:"hsn_code"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	HSNCode      string          `json:"hsn_code"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
