package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketsnap-inventory/internal/application/dto"
	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
	"github.com/jhoicas/marketsnap-inventory/pkg/logger"
)

// StockService es el único camino de escritura del diario y del snapshot de stock.
// Cada mutación bloquea la fila (SELECT FOR UPDATE), valida reglas de negocio y
// escribe asiento + snapshot en la misma transacción.
type StockService struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	recorder    MutationRecorder
	log         *logger.Logger
	now         func() time.Time
}

// NewStockService construye el servicio. recorder y log pueden ser nil.
func NewStockService(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	recorder MutationRecorder,
	log *logger.Logger,
) *StockService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockService{
		txRunner:    txRunner,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		recorder:    recorder,
		log:         log.Named("stock_service"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// StockMutation entrada de ApplyStockMutation. StoreID y ProductID ya fueron verificados
// contra el catálogo; Weight es el peso del producto en este momento.
// IsCreate marca la primera entrada del par: el stock actual se toma como 0.
type StockMutation struct {
	StoreID   string
	ProductID string
	Quantity  int64
	Action    entity.StockAction
	Actor     entity.Principal
	Weight    decimal.Decimal
	IsCreate  bool
}

// UpdateStockInput entrada del caso de uso expuesto por HTTP (POST /inventory).
type UpdateStockInput struct {
	StoreID   string
	ProductID string
	Quantity  int64
	Action    string
	Actor     entity.Principal
}

// CreateStockEntryInput entrada para dar de alta stock de un par tienda+producto.
type CreateStockEntryInput struct {
	StoreID      string
	ProductID    string
	InitialStock int64
	Actor        entity.Principal
}

// ApplyStockMutation aplica ADD/RESTOCK/SALE: valida, calcula el nuevo stock y escribe
// el asiento firmado y el snapshot como una sola unidad atómica.
func (s *StockService) ApplyStockMutation(ctx context.Context, m StockMutation) (*dto.StockMutationResult, error) {
	start := time.Now()
	res, err := s.applyStockMutation(ctx, m)
	s.observe(string(m.Action), err, start)
	if err != nil {
		s.logFailure(err, string(m.Action), m.StoreID, m.ProductID)
		return nil, err
	}
	s.log.Info().
		Str("store_id", m.StoreID).
		Str("product_id", m.ProductID).
		Str("action", string(m.Action)).
		Int64("quantity", res.Entry.Quantity).
		Int64("stock", res.Stock.Stock).
		Str("actor_id", m.Actor.ID).
		Msg("movimiento de stock registrado")
	return res, nil
}

func (s *StockService) applyStockMutation(ctx context.Context, m StockMutation) (*dto.StockMutationResult, error) {
	if m.StoreID == "" || m.ProductID == "" || m.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, ok := entity.ParseStockAction(string(m.Action)); !ok {
		return nil, domain.ErrInvalidInput
	}
	if m.Actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}

	var (
		snapshot *entity.StoreStock
		entry    *entity.StockJournal
	)
	err := s.txRunner.Run(ctx, func(
		journalRepo repository.StockJournalRepository,
		stockRepo repository.StoreStockRepository,
	) error {
		// Bloquea la fila del par (si existe) para que dos ventas concurrentes no lean el mismo stock
		existing, err := stockRepo.GetForUpdate(ctx, m.StoreID, m.ProductID)
		if err != nil {
			return err
		}

		var current int64
		switch {
		case m.IsCreate:
			if existing.IsLive() {
				return domain.ErrDuplicate
			}
		case existing == nil:
			// primera mutación del par sin alta previa: se crea con stock 0
		case !existing.IsLive():
			return domain.ErrNotFound
		default:
			current = existing.Stock
		}

		newStock, signed, err := nextStock(current, m.Quantity, m.Action)
		if err != nil {
			return err
		}

		now := s.now()
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		entry = &entity.StockJournal{
			ID:        id.String(),
			StoreID:   m.StoreID,
			ProductID: m.ProductID,
			Quantity:  signed,
			Weight:    m.Weight,
			Action:    m.Action,
			ActorID:   m.Actor.ID,
			CreatedAt: now,
		}
		if err := journalRepo.Create(ctx, entry); err != nil {
			return err
		}

		if existing == nil {
			snapshot = &entity.StoreStock{
				StoreID:   m.StoreID,
				ProductID: m.ProductID,
				Stock:     newStock,
				State:     entity.StockStateLive,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := stockRepo.Insert(ctx, snapshot); err != nil {
				// otra transacción insertó el par entre la lectura y la inserción
				if errors.Is(err, domain.ErrDuplicate) && !m.IsCreate {
					return domain.ErrConflict
				}
				return err
			}
			return nil
		}

		snapshot = existing
		if m.IsCreate {
			snapshot.Revive(newStock, now)
		} else {
			snapshot.Stock = newStock
			snapshot.UpdatedAt = now
		}
		return stockRepo.Update(ctx, snapshot)
	})
	if err != nil {
		return nil, asStorageFailure(err)
	}

	journalDTO := dto.ToStockJournalDTO(entry)
	return &dto.StockMutationResult{Stock: dto.ToStoreStockDTO(snapshot), Entry: &journalDTO}, nil
}

// nextStock calcula el stock resultante y la cantidad firmada del asiento.
func nextStock(current, quantity int64, action entity.StockAction) (newStock, signed int64, err error) {
	if _, ok := entity.ParseStockAction(string(action)); !ok {
		return 0, 0, domain.ErrInvalidInput
	}
	if !action.IsDeduction() {
		return current + quantity, quantity, nil
	}
	if current < quantity {
		return 0, 0, &domain.InsufficientStockError{Current: current, Requested: quantity}
	}
	return current - quantity, -quantity, nil
}

// UpdateStock verifica alcance y catálogo y luego aplica la mutación (no es alta).
func (s *StockService) UpdateStock(ctx context.Context, scope inventory.Scope, in UpdateStockInput) (*dto.StockMutationResult, error) {
	action, ok := entity.ParseStockAction(in.Action)
	if !ok || in.Quantity <= 0 || in.StoreID == "" || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !scope.Allows(in.StoreID) {
		return nil, domain.ErrForbidden
	}
	product, err := s.verifyReferences(ctx, in.StoreID, in.ProductID)
	if err != nil {
		return nil, err
	}
	return s.ApplyStockMutation(ctx, StockMutation{
		StoreID:   in.StoreID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Action:    action,
		Actor:     in.Actor,
		Weight:    product.Weight,
	})
}

// CreateStockEntry da de alta el stock inicial de un par. Falla con ErrDuplicate si ya hay
// una entrada vigente. Una entrada eliminada se puede volver a crear: pasa a LIVE y su
// diario continúa (el asiento de baja ya dejó la suma en cero).
func (s *StockService) CreateStockEntry(ctx context.Context, scope inventory.Scope, in CreateStockEntryInput) (*dto.StockMutationResult, error) {
	if !scope.IsUnscoped() {
		return nil, domain.ErrForbidden
	}
	if in.StoreID == "" || in.ProductID == "" || in.InitialStock <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := s.verifyReferences(ctx, in.StoreID, in.ProductID)
	if err != nil {
		return nil, err
	}
	return s.ApplyStockMutation(ctx, StockMutation{
		StoreID:   in.StoreID,
		ProductID: in.ProductID,
		Quantity:  in.InitialStock,
		Action:    entity.StockActionAdd,
		Actor:     in.Actor,
		Weight:    product.Weight,
		IsCreate:  true,
	})
}

// DeleteStockEntry da de baja una entrada vigente: registra una venta por todo el stock
// (write-off) y marca el snapshot como eliminado con stock 0, en la misma transacción.
func (s *StockService) DeleteStockEntry(ctx context.Context, scope inventory.Scope, storeID, productID string, actor entity.Principal) (*dto.StockMutationResult, error) {
	start := time.Now()
	res, err := s.deleteStockEntry(ctx, scope, storeID, productID, actor)
	s.observe(ActionDeleteEntry, err, start)
	if err != nil {
		s.logFailure(err, ActionDeleteEntry, storeID, productID)
		return nil, err
	}
	s.log.Info().
		Str("store_id", storeID).
		Str("product_id", productID).
		Str("actor_id", actor.ID).
		Msg("entrada de stock eliminada")
	return res, nil
}

func (s *StockService) deleteStockEntry(ctx context.Context, scope inventory.Scope, storeID, productID string, actor entity.Principal) (*dto.StockMutationResult, error) {
	if !scope.IsUnscoped() {
		return nil, domain.ErrForbidden
	}
	if storeID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}

	// El peso se copia aunque el producto ya esté eliminado del catálogo
	weight := decimal.Zero
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, asStorageFailure(err)
	}
	if product != nil {
		weight = product.Weight
	}

	var (
		snapshot *entity.StoreStock
		entry    *entity.StockJournal
	)
	err = s.txRunner.Run(ctx, func(
		journalRepo repository.StockJournalRepository,
		stockRepo repository.StoreStockRepository,
	) error {
		existing, err := stockRepo.GetForUpdate(ctx, storeID, productID)
		if err != nil {
			return err
		}
		if !existing.IsLive() {
			return domain.ErrNotFound
		}

		now := s.now()
		if existing.Stock > 0 {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			entry = &entity.StockJournal{
				ID:        id.String(),
				StoreID:   storeID,
				ProductID: productID,
				Quantity:  -existing.Stock,
				Weight:    weight,
				Action:    entity.StockActionSale,
				ActorID:   actor.ID,
				CreatedAt: now,
			}
			if err := journalRepo.Create(ctx, entry); err != nil {
				return err
			}
		}

		existing.SoftDelete(now)
		snapshot = existing
		return stockRepo.Update(ctx, snapshot)
	})
	if err != nil {
		return nil, asStorageFailure(err)
	}

	res := &dto.StockMutationResult{Stock: dto.ToStoreStockDTO(snapshot)}
	if entry != nil {
		journalDTO := dto.ToStockJournalDTO(entry)
		res.Entry = &journalDTO
	}
	return res, nil
}

// verifyReferences comprueba que la tienda exista y que el producto exista y no esté eliminado.
func (s *StockService) verifyReferences(ctx context.Context, storeID, productID string) (*entity.Product, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, asStorageFailure(err)
	}
	if store == nil || store.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, asStorageFailure(err)
	}
	if product == nil || product.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (s *StockService) observe(action string, err error, start time.Time) {
	outcome := OutcomeCommitted
	switch {
	case err == nil:
	case domain.IsClientError(err):
		outcome = OutcomeRejected
	default:
		outcome = OutcomeFailed
	}
	s.recorder.ObserveMutation(action, outcome, time.Since(start))
}

func (s *StockService) logFailure(err error, action, storeID, productID string) {
	ev := s.log.Warn()
	if !domain.IsClientError(err) {
		ev = s.log.Error()
	}
	ev.Err(err).
		Str("store_id", storeID).
		Str("product_id", productID).
		Str("action", action).
		Msg("movimiento de stock rechazado")
}

// asStorageFailure deja pasar los errores de dominio y envuelve el resto como ErrStorageFailure.
func asStorageFailure(err error) error {
	if err == nil || domain.IsClientError(err) || errors.Is(err, domain.ErrStorageFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
}
