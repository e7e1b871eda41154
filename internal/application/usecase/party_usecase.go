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

// PartyUseCase casos de uso CRUD para clientes.
type PartyUseCase struct {
	repo   repository.PartyRepository
	txRepo repository.TransactionRepository
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(repo repository.PartyRepository, txRepo repository.TransactionRepository) *PartyUseCase {
	return &PartyUseCase{repo: repo, txRepo: txRepo}
}

// Create crea un cliente.
func (uc *PartyUseCase) Create(ctx context.Context, in dto.CreateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	p := &entity.Party{
		ID:            uuid.New().String(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPartyResponse(p), nil
}

// GetByID obtiene un cliente por ID. Devuelve nil, nil si no existe.
func (uc *PartyUseCase) GetByID(ctx context.Context, id string) (*dto.CounterpartyResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return toPartyResponse(p), nil
}

// Update actualiza un cliente (parcial).
func (uc *PartyUseCase) Update(ctx context.Context, id string, in dto.UpdateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
		}
		p.Name = *in.Name
	}
	if in.ContactPerson != nil {
		p.ContactPerson = *in.ContactPerson
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPartyResponse(p), nil
}

// List lista todos los clientes.
func (uc *PartyUseCase) List(ctx context.Context) ([]dto.CounterpartyResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CounterpartyResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartyResponse(p))
	}
	return items, nil
}

// Delete elimina un cliente y sus tarifas en cascada. Devuelve ErrInUse si
// alguna venta lo referencia.
func (uc *PartyUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	referenced, err := uc.txRepo.HasForCounterparty(ctx, entity.TxTypeSale, id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: cliente %s", domain.ErrInUse, p.Name)
	}
	return uc.repo.Delete(ctx, id)
}

func toPartyResponse(p *entity.Party) *dto.CounterpartyResponse {
	if p == nil {
		return nil
	}
	return &dto.CounterpartyResponse{
		ID:            p.ID,
		Name:          p.Name,
		ContactPerson: p.ContactPerson,
		Phone:         p.Phone,
		Email:         p.Email,
		Address:       p.Address,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
