package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorageFailure    = errors.New("fallo de almacenamiento")
)

// InsufficientStockError detalla una venta que supera el stock disponible.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	Current   int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: actual %d, solicitado %d", e.Current, e.Requested)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsClientError indica si el error es atribuible al solicitante (equivalente 4xx).
// Cualquier otro error, incluido ErrStorageFailure, es del sistema (5xx).
func IsClientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStorageFailure) {
		return false
	}
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized,
		ErrForbidden, ErrConflict, ErrInsufficientStock,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
