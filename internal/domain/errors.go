package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInUse             = errors.New("recurso referenciado por transacciones o asientos")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNumbering         = errors.New("fallo al asignar número de documento")
)

// InsufficientStockError detalla un rechazo de venta por stock insuficiente:
// qué producto, cuánto se pidió y cuánto había antes de la transacción.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: solicitado %s, disponible %s",
		e.ProductName, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall es la cantidad que falta para cubrir lo solicitado.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}
