// Package sqlite implementa los puertos de persistencia sobre SQLite
// (mattn/go-sqlite3): almacén de fichero único, WAL y claves foráneas
// activas. Los repositorios aceptan un Querier, así funcionan igual sobre
// la conexión compartida o atados a una transacción del TxRunner.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Querier abstrae *sql.DB y *sql.Tx para los repositorios.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store encapsula la conexión SQLite y el cerrojo de escritor único que
// usa el TxRunner para serializar transacciones de escritura.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open abre (o crea) la base de datos en dbPath y migra el esquema.
// Usa ":memory:" para una base en memoria (tests).
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de datos: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("abrir base de datos: %w", err)
	}
	// Una sola conexión: SQLite admite un escritor a la vez y así una base
	// ":memory:" es la misma para todos los usos del pool.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrar esquema: %w", err)
	}
	return store, nil
}

// DB expone la conexión compartida para construir repositorios fuera de
// una transacción.
func (s *Store) DB() *sql.DB { return s.db }

// Close cierra la conexión.
func (s *Store) Close() error { return s.db.Close() }

// migrate crea el esquema si no existe.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT 'pcs',
		hsn_code TEXT NOT NULL DEFAULT '',
		tax_rate TEXT NOT NULL DEFAULT '0',
		reorder_level TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS distributors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact_person TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS parties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact_person TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Tarifas por par (contraparte, producto): una fila por par, la última
	-- escritura reemplaza. Cascada desde ambos dueños.
	CREATE TABLE IF NOT EXISTS distributor_prices (
		id TEXT PRIMARY KEY,
		distributor_id TEXT NOT NULL REFERENCES distributors(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		rate TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(distributor_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS party_prices (
		id TEXT PRIMARY KEY,
		party_id TEXT NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		rate TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(party_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS purchases (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		distributor_id TEXT NOT NULL REFERENCES distributors(id),
		doc_date TEXT NOT NULL,
		invoice_number TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		total_amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS purchase_items (
		id TEXT PRIMARY KEY,
		purchase_id TEXT NOT NULL REFERENCES purchases(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id),
		line_no INTEGER NOT NULL,
		quantity TEXT NOT NULL,
		rate TEXT NOT NULL,
		amount TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		party_id TEXT NOT NULL REFERENCES parties(id),
		doc_date TEXT NOT NULL,
		invoice_number TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		total_amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sale_items (
		id TEXT PRIMARY KEY,
		sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id),
		line_no INTEGER NOT NULL,
		quantity TEXT NOT NULL,
		rate TEXT NOT NULL,
		amount TEXT NOT NULL
	);

	-- Libro de stock, append-only. transaction_id no lleva FK a propósito:
	-- los asientos sobreviven a la purga de sus transacciones de origen.
	CREATE TABLE IF NOT EXISTS stock_ledger (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id),
		tx_type TEXT NOT NULL,
		transaction_id TEXT NOT NULL,
		quantity_delta TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Contadores de numeración por tipo de documento. Nunca retroceden.
	CREATE TABLE IF NOT EXISTS document_sequences (
		doc_type TEXT PRIMARY KEY,
		last_value INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_stock_ledger_product ON stock_ledger(product_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_purchases_date ON purchases(doc_date);
	CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(doc_date);
	CREATE INDEX IF NOT EXISTS idx_purchase_items_parent ON purchase_items(purchase_id);
	CREATE INDEX IF NOT EXISTS idx_sale_items_parent ON sale_items(sale_id);
	CREATE INDEX IF NOT EXISTS idx_purchase_items_product ON purchase_items(product_id);
	CREATE INDEX IF NOT EXISTS idx_sale_items_product ON sale_items(product_id);
	`
	_, err := s.db.Exec(schema)
	return err
}
