package entity

import "github.com/shopspring/decimal"

// Estados de stock de un producto frente a su umbral de reposición.
const (
	StockStatusOut = "OUT_OF_STOCK" // stock <= 0
	StockStatusLow = "LOW_STOCK"    // 0 < stock < umbral
	StockStatusIn  = "IN_STOCK"     // resto de casos
)

// StockStatusFor clasifica un nivel de stock contra el umbral de reposición.
// Con umbral 0 cualquier stock positivo queda IN_STOCK.
func StockStatusFor(stock, reorderLevel decimal.Decimal) string {
	switch {
	case stock.Sign() <= 0:
		return StockStatusOut
	case stock.LessThan(reorderLevel):
		return StockStatusLow
	default:
		return StockStatusIn
	}
}
