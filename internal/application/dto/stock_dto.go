package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRowDTO stock derivado de un producto con su clasificación.
type StockRowDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Status       string          `json:"status"` // OUT_OF_STOCK | LOW_STOCK | IN_STOCK
}

// LedgerEntryResponse un asiento del libro de stock para vistas de historial.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	TxType        string          `json:"tx_type"`
	TransactionID string          `json:"transaction_id"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
	CreatedAt     time.Time       `json:"created_at"`
}
