package usecase

import (
	"context"
	"fmt"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// MaintenanceTxRunner ejecuta fn dentro de una transacción de base de datos
// con un TransactionRepository ligado a ella. Si fn devuelve error se hace
// rollback completo.
type MaintenanceTxRunner interface {
	RunPurge(ctx context.Context, fn func(txRepo repository.TransactionRepository) error) error
}

// MaintenanceUseCase operaciones del panel de mantenimiento: purga de
// transacciones por rango de fechas y vaciado de catálogos.
//
// La purga borra solo cabeceras y líneas. Los asientos del libro de stock
// sobreviven siempre (el libro es append-only y es la fuente del stock) y
// la numeración de documentos no retrocede jamás.
type MaintenanceUseCase struct {
	runner          MaintenanceTxRunner
	productRepo     repository.ProductRepository
	distributorRepo repository.DistributorRepository
	partyRepo       repository.PartyRepository
}

// NewMaintenanceUseCase construye el caso de uso.
func NewMaintenanceUseCase(
	runner MaintenanceTxRunner,
	productRepo repository.ProductRepository,
	distributorRepo repository.DistributorRepository,
	partyRepo repository.PartyRepository,
) *MaintenanceUseCase {
	return &MaintenanceUseCase{
		runner:          runner,
		productRepo:     productRepo,
		distributorRepo: distributorRepo,
		partyRepo:       partyRepo,
	}
}

// PurgeTransactions borra las cabeceras de los tipos marcados dentro de
// [From, To], con sus líneas en cascada, en una sola transacción de DB.
func (uc *MaintenanceUseCase) PurgeTransactions(ctx context.Context, in dto.PurgeTransactionsRequest) (*dto.PurgeResultDTO, error) {
	if !in.Purchases && !in.Sales {
		return nil, fmt.Errorf("%w: ningún tipo de transacción seleccionado", domain.ErrInvalidInput)
	}
	if in.To.Before(in.From) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}

	var result dto.PurgeResultDTO
	err := uc.runner.RunPurge(ctx, func(txRepo repository.TransactionRepository) error {
		if in.Purchases {
			n, err := txRepo.DeleteByDateRange(ctx, entity.TxTypePurchase, in.From, in.To)
			if err != nil {
				return err
			}
			result.PurchasesDeleted = n
		}
		if in.Sales {
			n, err := txRepo.DeleteByDateRange(ctx, entity.TxTypeSale, in.From, in.To)
			if err != nil {
				return err
			}
			result.SalesDeleted = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteAllProducts vacía el catálogo de productos. Falla con ErrInUse si
// alguno sigue referenciado por transacciones o por el libro.
func (uc *MaintenanceUseCase) DeleteAllProducts(ctx context.Context) error {
	return uc.productRepo.DeleteAll(ctx)
}

// DeleteAllDistributors vacía el catálogo de distribuidores (tarifas en
// cascada). Falla con ErrInUse si alguno tiene compras registradas.
func (uc *MaintenanceUseCase) DeleteAllDistributors(ctx context.Context) error {
	return uc.distributorRepo.DeleteAll(ctx)
}

// DeleteAllParties vacía el catálogo de clientes (tarifas en cascada).
// Falla con ErrInUse si alguno tiene ventas registradas.
func (uc *MaintenanceUseCase) DeleteAllParties(ctx context.Context) error {
	return uc.partyRepo.DeleteAll(ctx)
}
