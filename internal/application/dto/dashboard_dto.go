package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeTotalsDTO totales de compras o ventas de un período.
type TradeTotalsDTO struct {
	TxCount  int             `json:"tx_count"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// DashboardSummaryDTO respuesta del resumen del dashboard: KPIs del día
// actual y del mes en curso para compras y ventas.
type DashboardSummaryDTO struct {
	// Métricas del día actual (00:00 – 23:59)
	TodayPurchases TradeTotalsDTO `json:"today_purchases"`
	TodaySales     TradeTotalsDTO `json:"today_sales"`

	// Métricas del mes en curso (día 1 – hoy)
	MonthPurchases TradeTotalsDTO `json:"month_purchases"`
	MonthSales     TradeTotalsDTO `json:"month_sales"`

	// Metadatos del período, ej: "August 2026"
	DateLabel string `json:"date_label"`
}

// DailyTradeDTO totales de un día para la serie del gráfico mensual.
// Días sin actividad no aparecen en la serie.
type DailyTradeDTO struct {
	Day            time.Time       `json:"day"`
	PurchaseQty    decimal.Decimal `json:"purchase_qty"`
	PurchaseAmount decimal.Decimal `json:"purchase_amount"`
	SaleQty        decimal.Decimal `json:"sale_qty"`
	SaleAmount     decimal.Decimal `json:"sale_amount"`
}
