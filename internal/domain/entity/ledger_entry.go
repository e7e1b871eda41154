package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry es un asiento del libro de stock: un delta de cantidad con
// signo, ligado a la transacción que lo originó. El libro es append-only:
// los asientos jamás se actualizan ni se borran una vez confirmados, ni
// siquiera cuando la transacción de origen se purga. Revertir un movimiento
// exige registrar una transacción compensatoria.
type LedgerEntry struct {
	ID            string
	ProductID     string
	TxType        string          // TxTypePurchase | TxTypeSale
	TransactionID string          // referencia a la transacción de origen
	QuantityDelta decimal.Decimal // positivo compra, negativo venta
	CreatedAt     time.Time
}
