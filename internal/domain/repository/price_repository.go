package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/domain/entity"
)

// PriceRepository define el puerto de persistencia para las tarifas por par
// (contraparte, producto). Upsert reemplaza la tarifa previa del par exacto;
// Get devuelve nil (sin error) cuando el par nunca se ha fijado.
type PriceRepository interface {
	UpsertDistributorRate(ctx context.Context, distributorID, productID string, rate decimal.Decimal) error
	GetDistributorRate(ctx context.Context, distributorID, productID string) (*decimal.Decimal, error)
	ListByDistributor(ctx context.Context, distributorID string) ([]*entity.DistributorPrice, error)

	UpsertPartyRate(ctx context.Context, partyID, productID string, rate decimal.Decimal) error
	GetPartyRate(ctx context.Context, partyID, productID string) (*decimal.Decimal, error)
	ListByParty(ctx context.Context, partyID string) ([]*entity.PartyPrice, error)
}
