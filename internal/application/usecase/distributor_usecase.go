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

// DistributorUseCase casos de uso CRUD para distribuidores.
type DistributorUseCase struct {
	repo   repository.DistributorRepository
	txRepo repository.TransactionRepository
}

// NewDistributorUseCase construye el caso de uso.
func NewDistributorUseCase(repo repository.DistributorRepository, txRepo repository.TransactionRepository) *DistributorUseCase {
	return &DistributorUseCase{repo: repo, txRepo: txRepo}
}

// Create crea un distribuidor.
func (uc *DistributorUseCase) Create(ctx context.Context, in dto.CreateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	d := &entity.Distributor{
		ID:            uuid.New().String(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return toDistributorResponse(d), nil
}

// GetByID obtiene un distribuidor por ID. Devuelve nil, nil si no existe.
func (uc *DistributorUseCase) GetByID(ctx context.Context, id string) (*dto.CounterpartyResponse, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return toDistributorResponse(d), nil
}

// Update actualiza un distribuidor (parcial).
func (uc *DistributorUseCase) Update(ctx context.Context, id string, in dto.UpdateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
		}
		d.Name = *in.Name
	}
	if in.ContactPerson != nil {
		d.ContactPerson = *in.ContactPerson
	}
	if in.Phone != nil {
		d.Phone = *in.Phone
	}
	if in.Email != nil {
		d.Email = *in.Email
	}
	if in.Address != nil {
		d.Address = *in.Address
	}
	d.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return toDistributorResponse(d), nil
}

// List lista todos los distribuidores.
func (uc *DistributorUseCase) List(ctx context.Context) ([]dto.CounterpartyResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CounterpartyResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDistributorResponse(d))
	}
	return items, nil
}

// Delete elimina un distribuidor y sus tarifas en cascada. Devuelve ErrInUse
// si alguna compra lo referencia.
func (uc *DistributorUseCase) Delete(ctx context.Context, id string) error {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("%w: distribuidor %s", domain.ErrNotFound, id)
	}
	referenced, err := uc.txRepo.HasForCounterparty(ctx, entity.TxTypePurchase, id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: distribuidor %s", domain.ErrInUse, d.Name)
	}
	return uc.repo.Delete(ctx, id)
}

func toDistributorResponse(d *entity.Distributor) *dto.CounterpartyResponse {
	if d == nil {
		return nil
	}
	return &dto.CounterpartyResponse{
		ID:            d.ID,
		Name:          d.Name,
		ContactPerson: d.ContactPerson,
		Phone:         d.Phone,
		Email:         d.Email,
		Address:       d.Address,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
