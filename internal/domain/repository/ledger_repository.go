package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/domain/entity"
)

// LedgerRepository define el puerto del libro de stock. El puerto es
// append-only a propósito: no existen operaciones de actualización ni de
// borrado, y Append solo se invoca dentro del alcance transaccional del
// registro de compras/ventas.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// EntriesFor devuelve los asientos del producto en orden de inserción,
	// opcionalmente acotados por fecha (límites inclusivos).
	EntriesFor(ctx context.Context, productID string, from, to *time.Time) ([]*entity.LedgerEntry, error)
	// SumDeltas recalcula el stock actual del producto desde cero.
	SumDeltas(ctx context.Context, productID string) (decimal.Decimal, error)
	// SumDeltasAll devuelve el stock derivado de todos los productos con
	// asientos, indexado por producto.
	SumDeltasAll(ctx context.Context) (map[string]decimal.Decimal, error)
	// HasEntriesForProduct indica si el libro referencia el producto.
	HasEntriesForProduct(ctx context.Context, productID string) (bool, error)
}
