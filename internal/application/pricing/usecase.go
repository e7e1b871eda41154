// Package pricing resuelve y mantiene las tarifas acordadas por par
// (contraparte, producto): precios de compra por distribuidor y precios de
// venta por cliente. Una tarifa por par, la última escritura gana.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/repository"
)

// UseCase casos de uso del catálogo de precios.
type UseCase struct {
	priceRepo       repository.PriceRepository
	productRepo     repository.ProductRepository
	distributorRepo repository.DistributorRepository
	partyRepo       repository.PartyRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	priceRepo repository.PriceRepository,
	productRepo repository.ProductRepository,
	distributorRepo repository.DistributorRepository,
	partyRepo repository.PartyRepository,
) *UseCase {
	return &UseCase{
		priceRepo:       priceRepo,
		productRepo:     productRepo,
		distributorRepo: distributorRepo,
		partyRepo:       partyRepo,
	}
}

// SetDistributorRate fija (upsert) la tarifa de compra del par
// (distribuidor, producto), reemplazando cualquier valor anterior.
func (uc *UseCase) SetDistributorRate(ctx context.Context, in dto.SetRateRequest) error {
	if in.Rate.IsNegative() {
		return fmt.Errorf("%w: tarifa negativa", domain.ErrInvalidInput)
	}
	d, err := uc.distributorRepo.GetByID(ctx, in.CounterpartyID)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("%w: distribuidor %s", domain.ErrNotFound, in.CounterpartyID)
	}
	p, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	return uc.priceRepo.UpsertDistributorRate(ctx, in.CounterpartyID, in.ProductID, in.Rate)
}

// SetPartyRate fija (upsert) la tarifa de venta del par (cliente, producto).
func (uc *UseCase) SetPartyRate(ctx context.Context, in dto.SetRateRequest) error {
	if in.Rate.IsNegative() {
		return fmt.Errorf("%w: tarifa negativa", domain.ErrInvalidInput)
	}
	p, err := uc.partyRepo.GetByID(ctx, in.CounterpartyID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CounterpartyID)
	}
	prod, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if prod == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	return uc.priceRepo.UpsertPartyRate(ctx, in.CounterpartyID, in.ProductID, in.Rate)
}

// DistributorRateFor devuelve la tarifa vigente del par o nil si nunca se
// fijó (el llamador pide entonces la tarifa a mano).
func (uc *UseCase) DistributorRateFor(ctx context.Context, distributorID, productID string) (*decimal.Decimal, error) {
	return uc.priceRepo.GetDistributorRate(ctx, distributorID, productID)
}

// PartyRateFor devuelve la tarifa de venta vigente del par o nil.
func (uc *UseCase) PartyRateFor(ctx context.Context, partyID, productID string) (*decimal.Decimal, error) {
	return uc.priceRepo.GetPartyRate(ctx, partyID, productID)
}

// DistributorPrices lista las tarifas de un distribuidor con los datos del
// producto, para el editor de precios.
func (uc *UseCase) DistributorPrices(ctx context.Context, distributorID string) ([]dto.PriceResponse, error) {
	prices, err := uc.priceRepo.ListByDistributor(ctx, distributorID)
	if err != nil {
		return nil, err
	}
	products, err := uc.productIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PriceResponse, 0, len(prices))
	for _, pr := range prices {
		row := dto.PriceResponse{ProductID: pr.ProductID, Rate: pr.Rate, UpdatedAt: pr.UpdatedAt}
		if p, ok := products[pr.ProductID]; ok {
			row.SKU = p.sku
			row.ProductName = p.name
		}
		out = append(out, row)
	}
	return out, nil
}

// PartyPrices lista las tarifas de un cliente con los datos del producto.
func (uc *UseCase) PartyPrices(ctx context.Context, partyID string) ([]dto.PriceResponse, error) {
	prices, err := uc.priceRepo.ListByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	products, err := uc.productIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PriceResponse, 0, len(prices))
	for _, pr := range prices {
		row := dto.PriceResponse{ProductID: pr.ProductID, Rate: pr.Rate, UpdatedAt: pr.UpdatedAt}
		if p, ok := products[pr.ProductID]; ok {
			row.SKU = p.sku
			row.ProductName = p.name
		}
		out = append(out, row)
	}
	return out, nil
}

type productRef struct {
	sku  string
	name string
}

func (uc *UseCase) productIndex(ctx context.Context) (map[string]productRef, error) {
	list, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]productRef, len(list))
	for _, p := range list {
		idx[p.ID] = productRef{sku: p.SKU, name: p.Name}
	}
	return idx, nil
}
