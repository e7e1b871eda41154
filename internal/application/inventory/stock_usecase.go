package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// StockUseCase deriva el stock actual desde el libro de movimientos. Nunca
// hay un total materializado: cada consulta recalcula sumando deltas, así
// el libro es siempre la única fuente de verdad.
type StockUseCase struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(productRepo repository.ProductRepository, ledgerRepo repository.LedgerRepository) *StockUseCase {
	return &StockUseCase{productRepo: productRepo, ledgerRepo: ledgerRepo}
}

// CurrentStock recalcula el stock del producto sumando sus deltas.
// Un producto sin asientos tiene stock cero.
func (uc *StockUseCase) CurrentStock(ctx context.Context, productID string) (decimal.Decimal, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if p == nil {
		return decimal.Zero, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return uc.ledgerRepo.SumDeltas(ctx, productID)
}

// Status devuelve el stock derivado del producto con su clasificación
// frente al umbral de reposición.
func (uc *StockUseCase) Status(ctx context.Context, productID string) (*dto.StockRowDTO, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	stock, err := uc.ledgerRepo.SumDeltas(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toStockRow(p, stock), nil
}

// Overview devuelve el stock derivado de todo el catálogo, en el orden del
// listado de productos. Productos sin asientos aparecen con stock cero.
func (uc *StockUseCase) Overview(ctx context.Context) ([]dto.StockRowDTO, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sums, err := uc.ledgerRepo.SumDeltasAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.StockRowDTO, 0, len(products))
	for _, p := range products {
		rows = append(rows, *toStockRow(p, sums[p.ID]))
	}
	return rows, nil
}

// History devuelve los asientos del producto en orden de inserción,
// opcionalmente acotados por fecha, para vistas de auditoría.
func (uc *StockUseCase) History(ctx context.Context, productID string, from, to *time.Time) ([]dto.LedgerEntryResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	entries, err := uc.ledgerRepo.EntriesFor(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryResponse{
			ID:            e.ID,
			ProductID:     e.ProductID,
			TxType:        e.TxType,
			TransactionID: e.TransactionID,
			QuantityDelta: e.QuantityDelta,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out, nil
}

func toStockRow(p *entity.Product, stock decimal.Decimal) *dto.StockRowDTO {
	return &dto.StockRowDTO{
		ProductID:    p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Unit:         p.Unit,
		CurrentStock: stock,
		ReorderLevel: p.ReorderLevel,
		Status:       entity.StockStatusFor(stock, p.ReorderLevel),
	}
}
