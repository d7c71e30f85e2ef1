package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/jhoicas/marketsnap-inventory/docs"
	"github.com/jhoicas/marketsnap-inventory/internal/application/inventory"
	"github.com/jhoicas/marketsnap-inventory/internal/infrastructure/metrics"
	httpRouter "github.com/jhoicas/marketsnap-inventory/internal/interfaces/http"
	"github.com/jhoicas/marketsnap-inventory/pkg/config"
	"github.com/jhoicas/marketsnap-inventory/pkg/logger"
)

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger, catalogPath string) error {
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	store, err := openStorage(ctx, cfg, log, catalogPath)
	if err != nil {
		return err
	}
	defer store.close()

	mutationMetrics, err := metrics.NewInventoryMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	stockSvc := inventory.NewStockService(store.txRunner, store.productRepo, store.storeRepo, mutationMetrics, log)
	querySvc := inventory.NewQueryService(store.stockRepo, store.journalRepo, cfg.Inventory.LowStockThreshold, cfg.Inventory.DefaultPageSize)
	scopeResolver := inventory.NewScopeResolver(store.storeRepo, cfg.Inventory.ScopeCacheTTL)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MarketSnap Inventory API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockService:   stockSvc,
		QueryService:   querySvc,
		ScopeResolver:  scopeResolver,
		MetricsHandler: metrics.Handler(prometheus.DefaultGatherer),
		ServiceName:    cfg.App.Name,
		JWTSecret:      cfg.JWT.Secret,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	addr := cfg.HTTP.Addr()
	return runServer(func() error { return app.Listen(addr) }, app.ShutdownWithContext, quit, log)
}

// runServer sirve hasta recibir una señal de quit o hasta que listen falle (p.ej. puerto ocupado).
func runServer(listen func() error, shutdown func(context.Context) error, quit <-chan os.Signal, log *logger.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- listen()
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
			return fmt.Errorf("servidor HTTP: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
