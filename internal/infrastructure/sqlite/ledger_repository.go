package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// Asegura que *LedgerRepo implemente el puerto del dominio.
var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo persistencia del libro de stock sobre SQLite.
//
// Los deltas se guardan como texto decimal y se suman en Go: un SUM de SQL
// sobre esa columna los castearía a float y perdería precisión.
type LedgerRepo struct {
	q Querier
}

func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func (r *LedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	query := `INSERT INTO stock_ledger (id, product_id, tx_type, transaction_id, quantity_delta, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		entry.ID, entry.ProductID, entry.TxType, entry.TransactionID,
		entry.QuantityDelta, formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("asentar movimiento: %w", err)
	}
	return nil
}

func (r *LedgerRepo) EntriesFor(ctx context.Context, productID string, from, to *time.Time) ([]*entity.LedgerEntry, error) {
	query := `SELECT id, product_id, tx_type, transaction_id, quantity_delta, created_at
	          FROM stock_ledger WHERE product_id = ?`
	args := []any{productID}
	if from != nil {
		query += ` AND created_at >= ?`
		args = append(args, formatTime(*from))
	}
	if to != nil {
		query += ` AND created_at <= ?`
		args = append(args, formatTime(*to))
	}
	query += ` ORDER BY created_at ASC, rowid ASC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar asientos: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ProductID, &e.TxType, &e.TransactionID,
			&e.QuantityDelta, &createdAt); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("asiento %s: created_at: %w", e.ID, err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *LedgerRepo) SumDeltas(ctx context.Context, productID string) (decimal.Decimal, error) {
	query := `SELECT quantity_delta FROM stock_ledger WHERE product_id = ?`
	rows, err := r.q.QueryContext(ctx, query, productID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sumar stock: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var delta decimal.Decimal
		if err := rows.Scan(&delta); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(delta)
	}
	return total, rows.Err()
}

func (r *LedgerRepo) SumDeltasAll(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `SELECT product_id, quantity_delta FROM stock_ledger`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sumar stock global: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var productID string
		var delta decimal.Decimal
		if err := rows.Scan(&productID, &delta); err != nil {
			return nil, err
		}
		totals[productID] = totals[productID].Add(delta)
	}
	return totals, rows.Err()
}

func (r *LedgerRepo) HasEntriesForProduct(ctx context.Context, productID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM stock_ledger WHERE product_id = ?)`
	var exists bool
	if err := r.q.QueryRowContext(ctx, query, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("buscar asientos del producto: %w", err)
	}
	return exists, nil
}
