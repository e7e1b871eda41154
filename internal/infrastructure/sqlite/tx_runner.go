package sqlite

import (
	"context"
	"fmt"

	"github.com/allothq/allot/internal/application/inventory"
	"github.com/allothq/allot/internal/application/usecase"
	"github.com/allothq/allot/internal/domain/repository"
)

// Asegura que *TxRunner implemente los puertos transaccionales de aplicación.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ usecase.MaintenanceTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta funciones dentro de una transacción de SQLite.
//
// Cada ejecución serializa contra el mutex del Store antes de abrir la tx:
// con un único escritor no hay SQLITE_BUSY entre transacciones propias, y el
// defer de Rollback garantiza que un error en fn no deje nada a medio
// escribir.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store abierto.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run abre una transacción, construye los repositorios de registro atados a
// ella y ejecuta fn. Commit solo si fn devuelve nil; cualquier error
// revierte la transacción completa.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	ledgerRepo repository.LedgerRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(
		NewTransactionRepository(tx),
		NewLedgerRepository(tx),
		NewSequenceRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmar transacción: %w", err)
	}
	return nil
}

// RunPurge abre una transacción con un repositorio de transacciones atado a
// ella para el borrado por rango de fechas del panel de mantenimiento.
func (r *TxRunner) RunPurge(ctx context.Context, fn func(txRepo repository.TransactionRepository) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewTransactionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmar transacción: %w", err)
	}
	return nil
}
