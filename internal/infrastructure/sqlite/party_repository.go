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

// Asegura que *PartyRepo implemente el puerto del dominio.
var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo persistencia de clientes (parties) sobre SQLite.
type PartyRepo struct {
	q Querier
}

func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

const partyColumns = `id, name, contact_person, phone, email, address, created_at, updated_at`

func (r *PartyRepo) Create(ctx context.Context, p *entity.Party) error {
	query := `INSERT INTO parties (` + partyColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		p.ID, p.Name, p.ContactPerson, p.Phone, p.Email, p.Address,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("crear cliente: %w", err)
	}
	return nil
}

func (r *PartyRepo) GetByID(ctx context.Context, id string) (*entity.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE id = ?`
	p, err := scanParty(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PartyRepo) List(ctx context.Context) ([]*entity.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties ORDER BY name COLLATE NOCASE ASC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PartyRepo) Update(ctx context.Context, p *entity.Party) error {
	query := `UPDATE parties
	          SET name = ?, contact_person = ?, phone = ?, email = ?, address = ?, updated_at = ?
	          WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query,
		p.Name, p.ContactPerson, p.Phone, p.Email, p.Address, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("actualizar cliente: %w", err)
	}
	return nil
}

func (r *PartyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM parties WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: cliente %s", domain.ErrInUse, id)
		}
		return fmt.Errorf("borrar cliente: %w", err)
	}
	return nil
}

func (r *PartyRepo) DeleteAll(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM parties`)
	if err != nil {
		if isForeignKeyError(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("vaciar clientes: %w", err)
	}
	return nil
}

func scanParty(row rowScanner) (*entity.Party, error) {
	var p entity.Party
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &p.ContactPerson, &p.Phone, &p.Email, &p.Address,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("cliente %s: created_at: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("cliente %s: updated_at: %w", p.ID, err)
	}
	return &p, nil
}
