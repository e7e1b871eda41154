// Package analytics contiene los casos de uso del dashboard: totales del
// día y del mes en curso y la serie diaria para el gráfico mensual.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// DashboardUseCase genera el resumen de compras y ventas del día y del mes.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). No accede a
// las tablas de transacciones; delega todo en el repositorio.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. TradeTotals(compras, hoy)  2. TradeTotals(ventas, hoy)
//  3. TradeTotals(compras, mes)  4. TradeTotals(ventas, mes)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	// ── Rangos de fecha ───────────────────────────────────────────────────
	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	// ── Goroutines para paralelizar las 4 consultas DB ────────────────────
	type totalsResult struct {
		totals repository.TradeTotalsResult
		err    error
	}
	todayPurCh := make(chan totalsResult, 1)
	todaySalCh := make(chan totalsResult, 1)
	monthPurCh := make(chan totalsResult, 1)
	monthSalCh := make(chan totalsResult, 1)

	query := func(ch chan<- totalsResult, txType string, from, to time.Time) {
		t, err := uc.analyticsRepo.TradeTotals(ctx, txType, from, to)
		ch <- totalsResult{t, err}
	}
	go query(todayPurCh, entity.TxTypePurchase, todayStart, todayEnd)
	go query(todaySalCh, entity.TxTypeSale, todayStart, todayEnd)
	go query(monthPurCh, entity.TxTypePurchase, monthStart, monthEnd)
	go query(monthSalCh, entity.TxTypeSale, monthStart, monthEnd)

	todayPur := <-todayPurCh
	todaySal := <-todaySalCh
	monthPur := <-monthPurCh
	monthSal := <-monthSalCh

	if todayPur.err != nil {
		return nil, fmt.Errorf("dashboard: compras de hoy: %w", todayPur.err)
	}
	if todaySal.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", todaySal.err)
	}
	if monthPur.err != nil {
		return nil, fmt.Errorf("dashboard: compras del mes: %w", monthPur.err)
	}
	if monthSal.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", monthSal.err)
	}

	return &dto.DashboardSummaryDTO{
		TodayPurchases: toTradeTotals(todayPur.totals),
		TodaySales:     toTradeTotals(todaySal.totals),
		MonthPurchases: toTradeTotals(monthPur.totals),
		MonthSales:     toTradeTotals(monthSal.totals),
		DateLabel:      now.Format("January 2006"),
	}, nil
}

// GetDailySeries devuelve los totales por día del mes en curso, fusionando
// compras y ventas en una sola fila por día, en orden cronológico.
func (uc *DashboardUseCase) GetDailySeries(ctx context.Context) ([]dto.DailyTradeDTO, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	todayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		Add(24*time.Hour - time.Nanosecond)

	purchases, err := uc.analyticsRepo.DailyTotals(ctx, entity.TxTypePurchase, monthStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("dashboard: serie de compras: %w", err)
	}
	sales, err := uc.analyticsRepo.DailyTotals(ctx, entity.TxTypeSale, monthStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("dashboard: serie de ventas: %w", err)
	}

	// Fusión por día; los días solo con un tipo quedan con ceros en el otro.
	byDay := make(map[time.Time]*dto.DailyTradeDTO)
	order := make([]time.Time, 0, len(purchases)+len(sales))
	rowFor := func(day time.Time) *dto.DailyTradeDTO {
		if row, ok := byDay[day]; ok {
			return row
		}
		row := &dto.DailyTradeDTO{Day: day}
		byDay[day] = row
		order = append(order, day)
		return row
	}
	for _, p := range purchases {
		row := rowFor(p.Day)
		row.PurchaseQty = p.Quantity
		row.PurchaseAmount = p.Amount
	}
	for _, s := range sales {
		row := rowFor(s.Day)
		row.SaleQty = s.Quantity
		row.SaleAmount = s.Amount
	}

	out := make([]dto.DailyTradeDTO, 0, len(order))
	for _, day := range order {
		out = append(out, *byDay[day])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func toTradeTotals(t repository.TradeTotalsResult) dto.TradeTotalsDTO {
	return dto.TradeTotalsDTO{
		TxCount:  t.TxCount,
		Quantity: t.Quantity,
		Amount:   t.Amount,
	}
}
