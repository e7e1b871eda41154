package repository

import (
	"context"

	"github.com/allothq/allot/internal/domain/entity"
)

// PartyRepository define el puerto de persistencia para Party.
// Borrar un cliente elimina en cascada sus tarifas de venta.
type PartyRepository interface {
	Create(ctx context.Context, party *entity.Party) error
	GetByID(ctx context.Context, id string) (*entity.Party, error)
	List(ctx context.Context) ([]*entity.Party, error)
	Update(ctx context.Context, party *entity.Party) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
