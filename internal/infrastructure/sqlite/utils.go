package sqlite

import (
	"strings"
	"time"
)

// Las fechas se guardan como TEXT RFC3339 en UTC: ordenan bien de forma
// lexicográfica y las funciones de fecha de SQLite las entienden.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// isUniqueConstraintError detecta violaciones de constraint UNIQUE del driver.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyError detecta violaciones de clave foránea del driver.
func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
