package repository

import (
	"context"

	"github.com/allothq/allot/internal/domain/entity"
)

// DistributorRepository define el puerto de persistencia para Distributor.
// Borrar un distribuidor elimina en cascada sus tarifas de compra.
type DistributorRepository interface {
	Create(ctx context.Context, distributor *entity.Distributor) error
	GetByID(ctx context.Context, id string) (*entity.Distributor, error)
	List(ctx context.Context) ([]*entity.Distributor, error)
	Update(ctx context.Context, distributor *entity.Distributor) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
