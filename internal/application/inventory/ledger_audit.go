package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/marketsnap-inventory/internal/application/dto"
	"github.com/jhoicas/marketsnap-inventory/internal/domain"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
	"github.com/jhoicas/marketsnap-inventory/pkg/logger"
)

// LedgerAuditor verifica y, como procedimiento de recuperación, reconstruye el snapshot
// a partir del diario. No forma parte del camino de lectura.
type LedgerAuditor struct {
	txRunner    TxRunner
	journalRepo repository.StockJournalRepository
	recorder    MutationRecorder
	log         *logger.Logger
}

// NewLedgerAuditor construye el auditor. recorder y log pueden ser nil.
func NewLedgerAuditor(txRunner TxRunner, journalRepo repository.StockJournalRepository, recorder MutationRecorder, log *logger.Logger) *LedgerAuditor {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerAuditor{
		txRunner:    txRunner,
		journalRepo: journalRepo,
		recorder:    recorder,
		log:         log.Named("ledger_audit"),
	}
}

// Verify devuelve los pares cuya suma de cantidades firmadas no coincide con el snapshot.
func (a *LedgerAuditor) Verify(ctx context.Context) ([]dto.LedgerDiscrepancyDTO, error) {
	balances, err := a.journalRepo.Balances(ctx)
	if err != nil {
		return nil, asStorageFailure(err)
	}
	out := make([]dto.LedgerDiscrepancyDTO, 0)
	for _, b := range balances {
		if b.LedgerSum == b.SnapshotQty {
			continue
		}
		out = append(out, dto.LedgerDiscrepancyDTO{
			StoreID:     b.StoreID,
			ProductID:   b.ProductID,
			LedgerSum:   b.LedgerSum,
			SnapshotQty: b.SnapshotQty,
			Entries:     b.Entries,
		})
	}
	a.log.Info().Int("pairs", len(balances)).Int("discrepancies", len(out)).Msg("verificación del diario")
	return out, nil
}

// Rebuild recalcula el stock de un par vigente sumando su diario, bajo bloqueo de fila.
// Una suma negativa indica un diario corrupto y devuelve ErrConflict sin tocar nada.
func (a *LedgerAuditor) Rebuild(ctx context.Context, storeID, productID string) (*dto.StoreStockDTO, error) {
	if storeID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	start := time.Now()
	var out dto.StoreStockDTO
	err := a.txRunner.Run(ctx, func(
		journalRepo repository.StockJournalRepository,
		stockRepo repository.StoreStockRepository,
	) error {
		snapshot, err := stockRepo.GetForUpdate(ctx, storeID, productID)
		if err != nil {
			return err
		}
		if !snapshot.IsLive() {
			return domain.ErrNotFound
		}
		sum, err := journalRepo.SumByPair(ctx, storeID, productID)
		if err != nil {
			return err
		}
		if sum < 0 {
			return domain.ErrConflict
		}
		if sum != snapshot.Stock {
			a.log.Warn().
				Str("store_id", storeID).
				Str("product_id", productID).
				Int64("snapshot", snapshot.Stock).
				Int64("ledger_sum", sum).
				Msg("snapshot reconstruido desde el diario")
			snapshot.Stock = sum
			snapshot.UpdatedAt = time.Now().UTC()
			if err := stockRepo.Update(ctx, snapshot); err != nil {
				return err
			}
		}
		out = dto.ToStoreStockDTO(snapshot)
		return nil
	})
	outcome := OutcomeCommitted
	if err != nil {
		outcome = OutcomeFailed
		if domain.IsClientError(err) {
			outcome = OutcomeRejected
		}
	}
	a.recorder.ObserveMutation(ActionRebuildEntry, outcome, time.Since(start))
	if err != nil {
		return nil, asStorageFailure(err)
	}
	return &out, nil
}
