package repository

import (
	"context"
	"time"

	"github.com/allothq/allot/internal/domain/entity"
)

// TransactionFilter acota List: límites de fecha inclusivos sobre la fecha
// del documento y contraparte exacta. Campos nil/vacíos no filtran.
type TransactionFilter struct {
	From           *time.Time
	To             *time.Time
	CounterpartyID string
}

// TransactionRepository define el puerto de persistencia para cabeceras y
// líneas de compras y ventas. txType selecciona la familia de tablas
// (purchases/purchase_items o sales/sale_items).
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	CreateItem(ctx context.Context, txType string, item *entity.LineItem) error
	GetByID(ctx context.Context, txType, id string) (*entity.Transaction, error)
	ItemsFor(ctx context.Context, txType, transactionID string) ([]*entity.LineItem, error)
	// List devuelve cabeceras (sin líneas) de más reciente a más antigua.
	List(ctx context.Context, txType string, filter TransactionFilter) ([]*entity.Transaction, error)
	// HasItemsForProduct indica si alguna línea de compra o venta referencia el producto.
	HasItemsForProduct(ctx context.Context, productID string) (bool, error)
	// HasForCounterparty indica si existe alguna transacción del tipo dado para la contraparte.
	HasForCounterparty(ctx context.Context, txType, counterpartyID string) (bool, error)
	// DeleteByDateRange borra cabeceras del tipo en [from, to] (líneas en
	// cascada) y devuelve cuántas. Los asientos del libro no se tocan.
	DeleteByDateRange(ctx context.Context, txType string, from, to time.Time) (int64, error)
}
