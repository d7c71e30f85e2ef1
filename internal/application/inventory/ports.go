package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el asiento del diario y el snapshot se confirman juntos o no se confirma ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		journalRepo repository.StockJournalRepository,
		stockRepo repository.StoreStockRepository,
	) error) error
}

// Resultados reportados al MutationRecorder.
const (
	OutcomeCommitted   = "committed"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
	ActionDeleteEntry  = "DELETE"
	ActionRebuildEntry = "REBUILD"
)

// MutationRecorder recibe una observación por cada mutación intentada (métricas).
type MutationRecorder interface {
	ObserveMutation(action, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveMutation(string, string, time.Duration) {}
