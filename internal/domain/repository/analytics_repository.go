package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TradeTotalsResult resultado crudo de los totales de un tipo de transacción
// en un rango de fechas. Lo produce la DB; el use case lo convierte en DTO.
type TradeTotalsResult struct {
	TxCount  int
	Quantity decimal.Decimal // suma de cantidades de todas las líneas
	Amount   decimal.Decimal // suma de importes de cabecera
}

// DailyTotalsResult resultado crudo de los totales de un día.
type DailyTotalsResult struct {
	Day      time.Time // medianoche UTC del día agrupado
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura del dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// TradeTotals devuelve conteo, cantidad e importe del tipo dado en
	// [from, to]. Devuelve ceros (sin error) si no hay transacciones.
	TradeTotals(ctx context.Context, txType string, from, to time.Time) (TradeTotalsResult, error)

	// DailyTotals agrupa por día del documento dentro de [from, to],
	// en orden cronológico. Días sin transacciones no aparecen.
	DailyTotals(ctx context.Context, txType string, from, to time.Time) ([]DailyTotalsResult, error)
}
