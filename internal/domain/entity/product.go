package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product vista de solo lectura del catálogo; el inventario solo necesita el peso.
type Product struct {
	ID        string
	Name      string
	Weight    decimal.Decimal // kg
	DeletedAt *time.Time
}
