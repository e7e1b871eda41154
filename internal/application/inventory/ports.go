package inventory

import (
	"context"

	"github.com/allothq/allot/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del registro: la
// comprobación de stock, la numeración y las escrituras de cabecera, líneas
// y asientos confirman o revierten como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		ledgerRepo repository.LedgerRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
