package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/marketsnap-inventory/internal/application/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/infrastructure/metrics"
	"github.com/jhoicas/marketsnap-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/marketsnap-inventory/pkg/config"
	"github.com/jhoicas/marketsnap-inventory/pkg/logger"
)

var errPostgresOnly = errors.New("el comando requiere STORAGE_DRIVER=postgres")

func migrate(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.DB.Driver != config.StoragePostgres {
		return errPostgresOnly
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	res, err := postgres.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	log.Info().Ints("applied", res.Applied).Ints("skipped", res.Skipped).Msg("migraciones aplicadas")
	return nil
}

func newAuditor(ctx context.Context, cfg *config.Config, log *logger.Logger) (*inventory.LedgerAuditor, func(), error) {
	if cfg.DB.Driver != config.StoragePostgres {
		return nil, nil, errPostgresOnly
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	store := postgresStorage(pool)
	// Registro propio: el proceso termina sin exponer /metrics.
	rec, err := metrics.NewInventoryMetrics(prometheus.NewRegistry())
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return inventory.NewLedgerAuditor(store.txRunner, store.journalRepo, rec, log), store.close, nil
}

func ledgerVerify(ctx context.Context, out io.Writer, cfg *config.Config, log *logger.Logger) error {
	auditor, closeFn, err := newAuditor(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	list, err := auditor.Verify(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "ok: el diario cuadra con el snapshot")
		return nil
	}
	for _, d := range list {
		fmt.Fprintf(out, "%s\t%s\tdiario=%d\tsnapshot=%d\tasientos=%d\n",
			d.StoreID, d.ProductID, d.LedgerSum, d.SnapshotQty, d.Entries)
	}
	return fmt.Errorf("%d pares con diferencias", len(list))
}

func ledgerRebuild(ctx context.Context, out io.Writer, cfg *config.Config, log *logger.Logger, storeID, productID string) error {
	auditor, closeFn, err := newAuditor(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	s, err := auditor.Rebuild(ctx, storeID, productID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\t%s\tstock=%d\n", s.StoreID, s.ProductID, s.Stock)
	return nil
}
