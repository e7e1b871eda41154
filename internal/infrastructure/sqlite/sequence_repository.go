package sqlite

import (
	"context"
	"fmt"

	"github.com/allothq/allot/internal/domain/repository"
)

// Asegura que *SequenceRepo implemente el puerto del dominio.
var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos de numeración documental sobre SQLite.
//
// El contador vive en document_sequences y avanza con un upsert atómico:
// la fila se crea en 1 la primera vez y después solo se incrementa, nunca
// retrocede. Un rollback de la transacción que pidió el número deshace
// también el incremento, así que no quedan huecos por fallos de registro;
// los números de documentos purgados sí quedan como huecos permanentes.
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) Next(ctx context.Context, docType string) (int64, error) {
	query := `INSERT INTO document_sequences (doc_type, last_value) VALUES (?, 1)
	          ON CONFLICT(doc_type) DO UPDATE SET last_value = last_value + 1
	          RETURNING last_value`
	var next int64
	if err := r.q.QueryRowContext(ctx, query, docType).Scan(&next); err != nil {
		return 0, fmt.Errorf("avanzar consecutivo %s: %w", docType, err)
	}
	return next, nil
}
