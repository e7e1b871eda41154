package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// Asegura que *PriceRepo implemente el puerto del dominio.
var _ repository.PriceRepository = (*PriceRepo)(nil)

// PriceRepo persistencia del catálogo de tarifas sobre SQLite.
//
// Cada par (contraparte, producto) guarda exactamente una fila; el upsert
// con ON CONFLICT reemplaza la tarifa anterior, de modo que la última
// escritura siempre gana.
type PriceRepo struct {
	q Querier
}

func NewPriceRepository(q Querier) *PriceRepo {
	return &PriceRepo{q: q}
}

func (r *PriceRepo) UpsertDistributorRate(ctx context.Context, distributorID, productID string, rate decimal.Decimal) error {
	now := formatTime(time.Now())
	query := `INSERT INTO distributor_prices (id, distributor_id, product_id, rate, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)
	          ON CONFLICT(distributor_id, product_id)
	          DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`
	_, err := r.q.ExecContext(ctx, query, uuid.New().String(), distributorID, productID, rate, now, now)
	if err != nil {
		return fmt.Errorf("fijar tarifa de compra: %w", err)
	}
	return nil
}

func (r *PriceRepo) GetDistributorRate(ctx context.Context, distributorID, productID string) (*decimal.Decimal, error) {
	query := `SELECT rate FROM distributor_prices WHERE distributor_id = ? AND product_id = ?`
	return r.scanRate(r.q.QueryRowContext(ctx, query, distributorID, productID))
}

func (r *PriceRepo) ListByDistributor(ctx context.Context, distributorID string) ([]*entity.DistributorPrice, error) {
	query := `SELECT id, distributor_id, product_id, rate, created_at, updated_at
	          FROM distributor_prices WHERE distributor_id = ?
	          ORDER BY updated_at DESC`
	rows, err := r.q.QueryContext(ctx, query, distributorID)
	if err != nil {
		return nil, fmt.Errorf("listar tarifas de compra: %w", err)
	}
	defer rows.Close()

	var out []*entity.DistributorPrice
	for rows.Next() {
		var p entity.DistributorPrice
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.DistributorID, &p.ProductID, &p.Rate, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("tarifa %s: created_at: %w", p.ID, err)
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("tarifa %s: updated_at: %w", p.ID, err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PriceRepo) UpsertPartyRate(ctx context.Context, partyID, productID string, rate decimal.Decimal) error {
	now := formatTime(time.Now())
	query := `INSERT INTO party_prices (id, party_id, product_id, rate, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)
	          ON CONFLICT(party_id, product_id)
	          DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`
	_, err := r.q.ExecContext(ctx, query, uuid.New().String(), partyID, productID, rate, now, now)
	if err != nil {
		return fmt.Errorf("fijar tarifa de venta: %w", err)
	}
	return nil
}

func (r *PriceRepo) GetPartyRate(ctx context.Context, partyID, productID string) (*decimal.Decimal, error) {
	query := `SELECT rate FROM party_prices WHERE party_id = ? AND product_id = ?`
	return r.scanRate(r.q.QueryRowContext(ctx, query, partyID, productID))
}

func (r *PriceRepo) ListByParty(ctx context.Context, partyID string) ([]*entity.PartyPrice, error) {
	query := `SELECT id, party_id, product_id, rate, created_at, updated_at
	          FROM party_prices WHERE party_id = ?
	          ORDER BY updated_at DESC`
	rows, err := r.q.QueryContext(ctx, query, partyID)
	if err != nil {
		return nil, fmt.Errorf("listar tarifas de venta: %w", err)
	}
	defer rows.Close()

	var out []*entity.PartyPrice
	for rows.Next() {
		var p entity.PartyPrice
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.PartyID, &p.ProductID, &p.Rate, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("tarifa %s: created_at: %w", p.ID, err)
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("tarifa %s: updated_at: %w", p.ID, err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PriceRepo) scanRate(row *sql.Row) (*decimal.Decimal, error) {
	var rate decimal.Decimal
	err := row.Scan(&rate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer tarifa: %w", err)
	}
	return &rate, nil
}
