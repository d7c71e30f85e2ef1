package inventory

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/marketsnap-inventory/internal/application/dto"
	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

// DefaultLowStockThreshold umbral de alertas cuando el llamador no envía uno.
const DefaultLowStockThreshold int64 = 10

// QueryService lecturas paginadas del snapshot y del diario, siempre filtradas por alcance.
type QueryService struct {
	stockRepo        repository.StoreStockRepository
	journalRepo      repository.StockJournalRepository
	defaultThreshold int64
	pageSize         int
}

// NewQueryService construye el servicio de consultas. threshold <= 0 o pageSize <= 0 usan los defaults.
func NewQueryService(
	stockRepo repository.StoreStockRepository,
	journalRepo repository.StockJournalRepository,
	threshold int64,
	pageSize int,
) *QueryService {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	if pageSize <= 0 {
		pageSize = dto.DefaultPageSize
	}
	return &QueryService{
		stockRepo:        stockRepo,
		journalRepo:      journalRepo,
		defaultThreshold: threshold,
		pageSize:         pageSize,
	}
}

// CurrentStockFilter filtros de GetCurrentStock.
type CurrentStockFilter struct {
	StoreID   string
	ProductID string
}

// HistoryFilter filtros de GetHistory; se combinan con AND.
type HistoryFilter struct {
	StoreID   string
	ProductID string
	Action    string
	From      *time.Time
	To        *time.Time
}

// GetCurrentStock lista los snapshots vigentes, más recientes primero.
func (s *QueryService) GetCurrentStock(ctx context.Context, scope inventory.Scope, f CurrentStockFilter, page dto.PageRequest) (*dto.StockListResponse, error) {
	scope, err := scope.Narrow(f.StoreID)
	if err != nil {
		return nil, err
	}
	page.DefaultPageWith(s.pageSize)
	if !page.InRange() {
		return nil, domain.ErrInvalidInput
	}

	storeIDs, restricted := scope.StoreIDs()
	filter := repository.StockFilter{StoreIDs: storeIDs, RestrictStores: restricted, ProductID: f.ProductID}

	var (
		total int
		list  []*entity.StoreStock
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.stockRepo.CountLive(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = s.stockRepo.ListLive(gctx, filter, page.Limit, page.Offset())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, asStorageFailure(err)
	}

	return &dto.StockListResponse{
		Data:       dto.ToStoreStockDTOs(list),
		Pagination: dto.NewPagination(page, total),
	}, nil
}

// GetHistory lista asientos del diario, más recientes primero. Un STORE_ADMIN sin tiendas
// asignadas recibe ErrForbidden (distinto de "sin resultados").
func (s *QueryService) GetHistory(ctx context.Context, scope inventory.Scope, f HistoryFilter, page dto.PageRequest) (*dto.StockHistoryResponse, error) {
	if scope.IsEmpty() {
		return nil, domain.ErrForbidden
	}
	scope, err := scope.Narrow(f.StoreID)
	if err != nil {
		return nil, err
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPageWith(s.pageSize)
	if !page.InRange() {
		return nil, domain.ErrInvalidInput
	}

	storeIDs, restricted := scope.StoreIDs()
	filter := repository.JournalFilter{
		StoreIDs:       storeIDs,
		RestrictStores: restricted,
		ProductID:      f.ProductID,
		From:           f.From,
		To:             f.To,
	}
	if f.Action != "" {
		action, ok := entity.ParseStockAction(f.Action)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		filter.Action = &action
	}

	var (
		total int
		list  []*entity.StockJournal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.journalRepo.Count(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = s.journalRepo.List(gctx, filter, page.Limit, page.Offset())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, asStorageFailure(err)
	}

	return &dto.StockHistoryResponse{
		Data:       dto.ToStockJournalDTOs(list),
		Pagination: dto.NewPagination(page, total),
	}, nil
}

// GetLowStockAlerts devuelve los snapshots vigentes con stock <= threshold, ascendente por stock.
// threshold nil o 0 usa el umbral por defecto; negativo es ErrInvalidInput.
func (s *QueryService) GetLowStockAlerts(ctx context.Context, scope inventory.Scope, threshold *int64) (*dto.LowStockResponse, error) {
	limit := s.defaultThreshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		if *threshold > 0 {
			limit = *threshold
		}
	}

	storeIDs, restricted := scope.StoreIDs()
	filter := repository.StockFilter{StoreIDs: storeIDs, RestrictStores: restricted}
	list, err := s.stockRepo.ListLowStock(ctx, filter, limit)
	if err != nil {
		return nil, asStorageFailure(err)
	}
	return &dto.LowStockResponse{
		Data:               dto.ToStoreStockDTOs(list),
		Threshold:          limit,
		TotalLowStockItems: len(list),
	}, nil
}
