package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos del catálogo.
// El stock no se toca aquí: se deriva del libro vía el agregador.
type ProductUseCase struct {
	repo       repository.ProductRepository
	txRepo     repository.TransactionRepository
	ledgerRepo repository.LedgerRepository
}

// NewProductUseCase construye el caso de uso. txRepo y ledgerRepo se usan
// solo para rechazar borrados de productos referenciados.
func NewProductUseCase(repo repository.ProductRepository, txRepo repository.TransactionRepository, ledgerRepo repository.LedgerRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRepo: txRepo, ledgerRepo: ledgerRepo}
}

// Create crea un producto. Devuelve ErrDuplicate si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" {
		return nil, fmt.Errorf("%w: sku requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if in.TaxRate.IsNegative() || in.ReorderLevel.IsNegative() {
		return nil, fmt.Errorf("%w: tax_rate y reorder_level no pueden ser negativos", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: sku %s", domain.ErrDuplicate, in.SKU)
	}
	if in.Unit == "" {
		in.Unit = "pcs"
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		Unit:         in.Unit,
		HSNCode:      in.HSNCode,
		TaxRate:      in.TaxRate,
		ReorderLevel: in.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve nil, nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// GetBySKU obtiene un producto por su código. Devuelve nil, nil si no existe.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto (parcial). El SKU no se modifica: es la
// identidad visible del producto en documentos ya emitidos.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.HSNCode != nil {
		product.HSNCode = *in.HSNCode
	}
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() {
			return nil, fmt.Errorf("%w: tax_rate negativo", domain.ErrInvalidInput)
		}
		product.TaxRate = *in.TaxRate
	}
	if in.ReorderLevel != nil {
		if in.ReorderLevel.IsNegative() {
			return nil, fmt.Errorf("%w: reorder_level negativo", domain.ErrInvalidInput)
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista todos los productos del catálogo.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto. Devuelve ErrInUse si alguna transacción o
// asiento del libro lo referencia: la integridad de documentos emitidos y
// del libro manda sobre la limpieza del catálogo.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	referenced, err := uc.txRepo.HasItemsForProduct(ctx, id)
	if err != nil {
		return err
	}
	if !referenced {
		referenced, err = uc.ledgerRepo.HasEntriesForProduct(ctx, id)
		if err != nil {
			return err
		}
	}
	if referenced {
		return fmt.Errorf("%w: producto %s", domain.ErrInUse, product.SKU)
	}
	return uc.repo.Delete(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Unit:         p.Unit,
		HSNCode:      p.HSNCode,
		TaxRate:      p.TaxRate,
		ReorderLevel: p.ReorderLevel,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
