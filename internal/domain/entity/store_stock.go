package entity

import "time"

// StockState estado del ciclo de vida de una entrada de stock.
type StockState string

// Estados válidos: inexistente -> LIVE -> DELETED (terminal salvo recreación explícita).
const (
	StockStateLive    StockState = "LIVE"
	StockStateDeleted StockState = "DELETED"
)

// StoreStock representa el stock actual de un producto en una tienda (snapshot materializado
// a partir del diario). Una fila por (StoreID, ProductID).
type StoreStock struct {
	StoreID   string
	ProductID string
	Stock     int64
	State     StockState
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsLive indica si la entrada está vigente.
func (s *StoreStock) IsLive() bool {
	return s != nil && s.State == StockStateLive
}

// SoftDelete lleva la entrada a DELETED con stock 0.
func (s *StoreStock) SoftDelete(now time.Time) {
	s.Stock = 0
	s.State = StockStateDeleted
	s.DeletedAt = &now
	s.UpdatedAt = now
}

// Revive vuelve a poner en LIVE una entrada eliminada con el stock indicado.
func (s *StoreStock) Revive(stock int64, now time.Time) {
	s.Stock = stock
	s.State = StockStateLive
	s.DeletedAt = nil
	s.UpdatedAt = now
}
