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

// Asegura que *DistributorRepo implemente el puerto del dominio.
var _ repository.DistributorRepository = (*DistributorRepo)(nil)

// DistributorRepo persistencia de distribuidores (proveedores) sobre SQLite.
type DistributorRepo struct {
	q Querier
}

func NewDistributorRepository(q Querier) *DistributorRepo {
	return &DistributorRepo{q: q}
}

const distributorColumns = `id, name, contact_person, phone, email, address, created_at, updated_at`

func (r *DistributorRepo) Create(ctx context.Context, d *entity.Distributor) error {
	query := `INSERT INTO distributors (` + distributorColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		d.ID, d.Name, d.ContactPerson, d.Phone, d.Email, d.Address,
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("crear distribuidor: %w", err)
	}
	return nil
}

func (r *DistributorRepo) GetByID(ctx context.Context, id string) (*entity.Distributor, error) {
	query := `SELECT ` + distributorColumns + ` FROM distributors WHERE id = ?`
	d, err := scanDistributor(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DistributorRepo) List(ctx context.Context) ([]*entity.Distributor, error) {
	query := `SELECT ` + distributorColumns + ` FROM distributors ORDER BY name COLLATE NOCASE ASC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar distribuidores: %w", err)
	}
	defer rows.Close()

	var out []*entity.Distributor
	for rows.Next() {
		d, err := scanDistributor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DistributorRepo) Update(ctx context.Context, d *entity.Distributor) error {
	query := `UPDATE distributors
	          SET name = ?, contact_person = ?, phone = ?, email = ?, address = ?, updated_at = ?
	          WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query,
		d.Name, d.ContactPerson, d.Phone, d.Email, d.Address, formatTime(d.UpdatedAt), d.ID,
	)
	if err != nil {
		return fmt.Errorf("actualizar distribuidor: %w", err)
	}
	return nil
}

func (r *DistributorRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM distributors WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: distribuidor %s", domain.ErrInUse, id)
		}
		return fmt.Errorf("borrar distribuidor: %w", err)
	}
	return nil
}

func (r *DistributorRepo) DeleteAll(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM distributors`)
	if err != nil {
		if isForeignKeyError(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("vaciar distribuidores: %w", err)
	}
	return nil
}

func scanDistributor(row rowScanner) (*entity.Distributor, error) {
	var d entity.Distributor
	var createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.Name, &d.ContactPerson, &d.Phone, &d.Email, &d.Address,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("distribuidor %s: created_at: %w", d.ID, err)
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("distribuidor %s: updated_at: %w", d.ID, err)
	}
	return &d, nil
}
