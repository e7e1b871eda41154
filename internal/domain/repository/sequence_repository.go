package repository

import "context"

// SequenceRepository define el puerto de numeración de documentos.
// Next incrementa y devuelve el contador del tipo dado (PUR, SAL).
// La fila del contador es independiente de las transacciones: purgar
// documentos jamás retrocede la secuencia, así que un número emitido
// no se reutiliza nunca.
type SequenceRepository interface {
	Next(ctx context.Context, docType string) (int64, error)
}
