package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketsnap-inventory/internal/application/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/entity"
	"github.com/jhoicas/marketsnap-inventory/internal/domain/repository"
	"github.com/jhoicas/marketsnap-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/marketsnap-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/marketsnap-inventory/pkg/config"
	"github.com/jhoicas/marketsnap-inventory/pkg/logger"
)

// storage adaptadores de persistencia según STORAGE_DRIVER.
type storage struct {
	txRunner    inventory.TxRunner
	stockRepo   repository.StoreStockRepository
	journalRepo repository.StockJournalRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	close       func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger, catalogPath string) (*storage, error) {
	switch cfg.DB.Driver {
	case config.StorageMemory:
		st := memory.NewStore()
		if catalogPath != "" {
			if err := loadCatalog(st, catalogPath); err != nil {
				return nil, err
			}
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			txRunner:    st,
			stockRepo:   st.StockRepository(),
			journalRepo: st.JournalRepository(),
			productRepo: st.ProductRepository(),
			storeRepo:   st.StoreRepository(),
			close:       func() {},
		}, nil
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return postgresStorage(pool), nil
	}
}

func postgresStorage(pool *pgxpool.Pool) *storage {
	return &storage{
		txRunner:    postgres.NewTxRunner(pool),
		stockRepo:   postgres.NewStoreStockRepository(pool),
		journalRepo: postgres.NewStockJournalRepository(pool),
		productRepo: postgres.NewProductRepository(pool),
		storeRepo:   postgres.NewStoreRepository(pool),
		close:       pool.Close,
	}
}

// catalogFile formato del archivo --catalog.
type catalogFile struct {
	Stores []struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
		Name   string `json:"name"`
	} `json:"stores"`
	Products []struct {
		ID     string          `json:"id"`
		Name   string          `json:"name"`
		Weight decimal.Decimal `json:"weight"`
	} `json:"products"`
}

func loadCatalog(st *memory.Store, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("leer catálogo: %w", err)
	}
	var cat catalogFile
	if err := json.Unmarshal(raw, &cat); err != nil {
		return fmt.Errorf("catálogo inválido: %w", err)
	}
	for _, s := range cat.Stores {
		st.PutStore(entity.Store{ID: s.ID, UserID: s.UserID, Name: s.Name})
	}
	for _, p := range cat.Products {
		st.PutProduct(entity.Product{ID: p.ID, Name: p.Name, Weight: p.Weight})
	}
	return nil
}
