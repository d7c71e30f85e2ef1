package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAction tipo de movimiento registrado en el diario de inventario.
type StockAction string

// Acciones de inventario.
const (
	StockActionAdd     StockAction = "ADD"     // alta inicial o suma manual
	StockActionRestock StockAction = "RESTOCK" // reposición
	StockActionSale    StockAction = "SALE"    // venta o baja
)

// ParseStockAction valida un string contra las acciones conocidas.
func ParseStockAction(s string) (StockAction, bool) {
	switch a := StockAction(s); a {
	case StockActionAdd, StockActionRestock, StockActionSale:
		return a, true
	}
	return "", false
}

// IsDeduction indica si la acción descuenta stock.
func (a StockAction) IsDeduction() bool {
	return a == StockActionSale
}

// StockJournal es una entrada inmutable del diario de inventario.
// Quantity es positivo en entradas y negativo en salidas.
type StockJournal struct {
	ID        string
	StoreID   string
	ProductID string
	Quantity  int64
	Weight    decimal.Decimal // peso del producto al momento del registro
	Action    StockAction
	ActorID   string
	CreatedAt time.Time
}
