package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
)

// UpdateStockRequest body para POST /api/v1/inventory.
type UpdateStockRequest struct {
	StoreID   string `json:"storeId"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
	Action    string `json:"action"` // ADD | RESTOCK | SALE
}

// CreateStockEntryRequest body para POST /api/v1/inventory/create.
type CreateStockEntryRequest struct {
	StoreID      string `json:"storeId"`
	ProductID    string `json:"productId"`
	InitialStock int64  `json:"initialStock"`
}

// StoreStockDTO snapshot de stock en respuestas.
type StoreStockDTO struct {
	StoreID   string     `json:"storeId"`
	ProductID string     `json:"productId"`
	Stock     int64      `json:"stock"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// StockJournalDTO entrada del diario en respuestas.
type StockJournalDTO struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"storeId"`
	ProductID string          `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Weight    decimal.Decimal `json:"weight"`
	Action    string          `json:"action"`
	ActorID   string          `json:"actorId"`
	CreatedAt time.Time       `json:"createdAt"`
}

// StockMutationResult resultado de una mutación confirmada.
// Entry es nil cuando la operación no generó asiento (baja de una entrada con stock 0).
type StockMutationResult struct {
	Stock StoreStockDTO    `json:"stock"`
	Entry *StockJournalDTO `json:"entry,omitempty"`
}

// StockListResponse respuesta de GET /api/v1/inventory.
type StockListResponse struct {
	Data       []StoreStockDTO `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// StockHistoryResponse respuesta de GET /api/v1/inventory/history.
type StockHistoryResponse struct {
	Data       []StockJournalDTO `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// LowStockResponse respuesta de GET /api/v1/inventory/low-stock.
type LowStockResponse struct {
	Data               []StoreStockDTO `json:"data"`
	Threshold          int64           `json:"threshold"`
	TotalLowStockItems int             `json:"totalLowStockItems"`
}

// LedgerDiscrepancyDTO par cuyo diario no cuadra con el snapshot.
type LedgerDiscrepancyDTO struct {
	StoreID     string `json:"storeId"`
	ProductID   string `json:"productId"`
	LedgerSum   int64  `json:"ledgerSum"`
	SnapshotQty int64  `json:"snapshotQty"`
	Entries     int    `json:"entries"`
}

// ToStoreStockDTO convierte la entidad al DTO.
func ToStoreStockDTO(s *entity.StoreStock) StoreStockDTO {
	return StoreStockDTO{
		StoreID:   s.StoreID,
		ProductID: s.ProductID,
		Stock:     s.Stock,
		State:     string(s.State),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		DeletedAt: s.DeletedAt,
	}
}

// ToStockJournalDTO convierte la entidad al DTO.
func ToStockJournalDTO(e *entity.StockJournal) StockJournalDTO {
	return StockJournalDTO{
		ID:        e.ID,
		StoreID:   e.StoreID,
		ProductID: e.ProductID,
		Quantity:  e.Quantity,
		Weight:    e.Weight,
		Action:    string(e.Action),
		ActorID:   e.ActorID,
		CreatedAt: e.CreatedAt,
	}
}

// ToStoreStockDTOs convierte una lista; nunca devuelve nil.
func ToStoreStockDTOs(list []*entity.StoreStock) []StoreStockDTO {
	out := make([]StoreStockDTO, 0, len(list))
	for _, s := range list {
		out = append(out, ToStoreStockDTO(s))
	}
	return out
}

// ToStockJournalDTOs convierte una lista; nunca devuelve nil.
func ToStockJournalDTOs(list []*entity.StockJournal) []StockJournalDTO {
	out := make([]StockJournalDTO, 0, len(list))
	for _, e := range list {
		out = append(out, ToStockJournalDTO(e))
	}
	return out
}
