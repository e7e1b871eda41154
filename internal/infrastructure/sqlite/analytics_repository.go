package sqlite

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/domain/repository"
)

// Asegura que *AnalyticsRepo implemente el puerto del dominio.
var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de lectura del dashboard sobre SQLite.
//
// Igual que en el libro de stock, los importes y cantidades se leen fila a
// fila y se suman en Go para no pasar los decimales por el SUM de SQL.
type AnalyticsRepo struct {
	q Querier
}

func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

func (r *AnalyticsRepo) TradeTotals(ctx context.Context, txType string, from, to time.Time) (repository.TradeTotalsResult, error) {
	t, err := tablesFor(txType)
	if err != nil {
		return repository.TradeTotalsResult{}, err
	}

	result := repository.TradeTotalsResult{Quantity: decimal.Zero, Amount: decimal.Zero}

	headerQuery := fmt.Sprintf(`SELECT total_amount FROM %s
	          WHERE doc_date >= ? AND doc_date <= ?`, t.header)
	rows, err := r.q.QueryContext(ctx, headerQuery, formatTime(from), formatTime(to))
	if err != nil {
		return result, fmt.Errorf("totales de %s: %w", txType, err)
	}
	defer rows.Close()
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return result, err
		}
		result.TxCount++
		result.Amount = result.Amount.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return result, err
	}

	itemQuery := fmt.Sprintf(`SELECT i.quantity FROM %s i
	          JOIN %s h ON i.%s = h.id
	          WHERE h.doc_date >= ? AND h.doc_date <= ?`, t.items, t.header, t.parentCol)
	itemRows, err := r.q.QueryContext(ctx, itemQuery, formatTime(from), formatTime(to))
	if err != nil {
		return result, fmt.Errorf("cantidades de %s: %w", txType, err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var qty decimal.Decimal
		if err := itemRows.Scan(&qty); err != nil {
			return result, err
		}
		result.Quantity = result.Quantity.Add(qty)
	}
	return result, itemRows.Err()
}

func (r *AnalyticsRepo) DailyTotals(ctx context.Context, txType string, from, to time.Time) ([]repository.DailyTotalsResult, error) {
	t, err := tablesFor(txType)
	if err != nil {
		return nil, err
	}

	type dayTotals struct {
		quantity decimal.Decimal
		amount   decimal.Decimal
	}
	byDay := make(map[string]*dayTotals)
	totalsFor := func(day string) *dayTotals {
		dt, ok := byDay[day]
		if !ok {
			dt = &dayTotals{quantity: decimal.Zero, amount: decimal.Zero}
			byDay[day] = dt
		}
		return dt
	}

	headerQuery := fmt.Sprintf(`SELECT DATE(doc_date), total_amount FROM %s
	          WHERE doc_date >= ? AND doc_date <= ?`, t.header)
	rows, err := r.q.QueryContext(ctx, headerQuery, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("serie diaria de %s: %w", txType, err)
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		var amount decimal.Decimal
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, err
		}
		dt := totalsFor(day)
		dt.amount = dt.amount.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemQuery := fmt.Sprintf(`SELECT DATE(h.doc_date), i.quantity FROM %s i
	          JOIN %s h ON i.%s = h.id
	          WHERE h.doc_date >= ? AND h.doc_date <= ?`, t.items, t.header, t.parentCol)
	itemRows, err := r.q.QueryContext(ctx, itemQuery, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("cantidades diarias de %s: %w", txType, err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var day string
		var qty decimal.Decimal
		if err := itemRows.Scan(&day, &qty); err != nil {
			return nil, err
		}
		dt := totalsFor(day)
		dt.quantity = dt.quantity.Add(qty)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	out := make([]repository.DailyTotalsResult, 0, len(byDay))
	for day, dt := range byDay {
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("día %q: %w", day, err)
		}
		out = append(out, repository.DailyTotalsResult{
			Day:      parsed,
			Quantity: dt.quantity,
			Amount:   dt.amount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}
