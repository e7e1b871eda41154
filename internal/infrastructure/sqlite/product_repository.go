package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// Asegura que *ProductRepo implemente el puerto del dominio.
var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo persistencia de productos sobre SQLite.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el repositorio sobre q (conexión o tx).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, description, unit, hsn_code, tax_rate, reorder_level, created_at, updated_at`

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.Unit, p.HSNCode,
		p.TaxRate, p.ReorderLevel, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
		return fmt.Errorf("crear producto: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = ?`
	return r.scanOne(r.q.QueryRowContext(ctx, query, sku))
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name COLLATE NOCASE ASC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `UPDATE products
	          SET name = ?, description = ?, unit = ?, hsn_code = ?,
	              tax_rate = ?, reorder_level = ?, updated_at = ?
	          WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query,
		p.Name, p.Description, p.Unit, p.HSNCode,
		p.TaxRate, p.ReorderLevel, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("actualizar producto: %w", err)
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrInUse, id)
		}
		return fmt.Errorf("borrar producto: %w", err)
	}
	return nil
}

func (r *ProductRepo) DeleteAll(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		if isForeignKeyError(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("vaciar productos: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row *sql.Row) (*entity.Product, error) {
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Unit, &p.HSNCode,
		&p.TaxRate, &p.ReorderLevel, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("producto %s: created_at: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("producto %s: updated_at: %w", p.ID, err)
	}
	return &p, nil
}
