package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// Asegura que *TransactionRepo implemente el puerto del dominio.
var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo persistencia de compras y ventas sobre SQLite.
//
// Las dos familias de documentos viven en pares de tablas gemelas
// (purchases/purchase_items y sales/sale_items); txTables resuelve el par
// según el tipo y el resto del repositorio arma el SQL sobre esos nombres.
type TransactionRepo struct {
	q Querier
}

func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// txTables nombres de tablas y columnas que cambian entre compra y venta.
type txTables struct {
	header    string
	items     string
	cpColumn  string // columna de contraparte en la cabecera
	parentCol string // columna que cuelga la línea de su cabecera
}

func tablesFor(txType string) (txTables, error) {
	switch txType {
	case entity.TxTypePurchase:
		return txTables{header: "purchases", items: "purchase_items", cpColumn: "distributor_id", parentCol: "purchase_id"}, nil
	case entity.TxTypeSale:
		return txTables{header: "sales", items: "sale_items", cpColumn: "party_id", parentCol: "sale_id"}, nil
	default:
		return txTables{}, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidInput, txType)
	}
}

func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	t, err := tablesFor(tx.Type)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, number, %s, doc_date, invoice_number, notes, total_amount, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, t.header, t.cpColumn)
	_, err = r.q.ExecContext(ctx, query,
		tx.ID, tx.Number, tx.CounterpartyID, formatTime(tx.Date),
		tx.InvoiceNumber, tx.Notes, tx.TotalAmount, formatTime(tx.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: número %s ya emitido", domain.ErrNumbering, tx.Number)
		}
		return fmt.Errorf("crear %s: %w", tx.Type, err)
	}
	return nil
}

func (r *TransactionRepo) CreateItem(ctx context.Context, txType string, item *entity.LineItem) error {
	t, err := tablesFor(txType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, %s, product_id, line_no, quantity, rate, amount)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`, t.items, t.parentCol)
	_, err = r.q.ExecContext(ctx, query,
		item.ID, item.TransactionID, item.ProductID, item.LineNo,
		item.Quantity, item.Rate, item.Amount,
	)
	if err != nil {
		return fmt.Errorf("crear línea %d: %w", item.LineNo, err)
	}
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, txType, id string) (*entity.Transaction, error) {
	t, err := tablesFor(txType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, number, %s, doc_date, invoice_number, notes, total_amount, created_at
	          FROM %s WHERE id = ?`, t.cpColumn, t.header)
	tx, err := scanTransaction(r.q.QueryRowContext(ctx, query, id), txType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *TransactionRepo) ItemsFor(ctx context.Context, txType, transactionID string) ([]*entity.LineItem, error) {
	t, err := tablesFor(txType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, %s, product_id, line_no, quantity, rate, amount
	          FROM %s WHERE %s = ? ORDER BY line_no ASC`, t.parentCol, t.items, t.parentCol)
	rows, err := r.q.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("listar líneas: %w", err)
	}
	defer rows.Close()

	var out []*entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.LineNo,
			&it.Quantity, &it.Rate, &it.Amount); err != nil {
			return nil, err
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) List(ctx context.Context, txType string, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	t, err := tablesFor(txType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, number, %s, doc_date, invoice_number, notes, total_amount, created_at
	          FROM %s WHERE 1=1`, t.cpColumn, t.header)
	var args []any
	if filter.From != nil {
		query += ` AND doc_date >= ?`
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		query += ` AND doc_date <= ?`
		args = append(args, formatTime(*filter.To))
	}
	if filter.CounterpartyID != "" {
		query += fmt.Sprintf(` AND %s = ?`, t.cpColumn)
		args = append(args, filter.CounterpartyID)
	}
	query += ` ORDER BY doc_date DESC, created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", txType, err)
	}
	defer rows.Close()

	var out []*entity.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows, txType)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) HasItemsForProduct(ctx context.Context, productID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM purchase_items WHERE product_id = ?)
	          OR EXISTS(SELECT 1 FROM sale_items WHERE product_id = ?)`
	var exists bool
	if err := r.q.QueryRowContext(ctx, query, productID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("buscar líneas del producto: %w", err)
	}
	return exists, nil
}

func (r *TransactionRepo) HasForCounterparty(ctx context.Context, txType, counterpartyID string) (bool, error) {
	t, err := tablesFor(txType)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ?)`, t.header, t.cpColumn)
	var exists bool
	if err := r.q.QueryRowContext(ctx, query, counterpartyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("buscar %s de la contraparte: %w", txType, err)
	}
	return exists, nil
}

func (r *TransactionRepo) DeleteByDateRange(ctx context.Context, txType string, from, to time.Time) (int64, error) {
	t, err := tablesFor(txType)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE doc_date >= ? AND doc_date <= ?`, t.header)
	res, err := r.q.ExecContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return 0, fmt.Errorf("purgar %s: %w", txType, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purgar %s: %w", txType, err)
	}
	return n, nil
}

func scanTransaction(row rowScanner, txType string) (*entity.Transaction, error) {
	var tx entity.Transaction
	var docDate, createdAt string
	err := row.Scan(&tx.ID, &tx.Number, &tx.CounterpartyID, &docDate,
		&tx.InvoiceNumber, &tx.Notes, &tx.TotalAmount, &createdAt)
	if err != nil {
		return nil, err
	}
	tx.Type = txType
	if tx.Date, err = parseTime(docDate); err != nil {
		return nil, fmt.Errorf("transacción %s: doc_date: %w", tx.ID, err)
	}
	if tx.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("transacción %s: created_at: %w", tx.ID, err)
	}
	return &tx, nil
}
