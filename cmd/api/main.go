package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/marketsnap-inventory/pkg/config"
	"github.com/jhoicas/marketsnap-inventory/pkg/logger"
)

// @title                       MarketSnap Inventory API
// @version                     1.0
// @description                 Diario y snapshot de stock por tienda y producto.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo Bearer
func main() {
	var cfg *config.Config
	var log *logger.Logger

	root := &cobra.Command{
		Use:          "marketsnap-inventory",
		Short:        "Servicio de inventario por tienda (diario + snapshot)",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			cfg = c
			log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
			return nil
		},
	}

	var catalogPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg, log, catalogPath)
		},
	}
	serveCmd.Flags().StringVar(&catalogPath, "catalog", "", "JSON con tiendas y productos para STORAGE_DRIVER=memory")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas en PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), cfg, log)
		},
	}

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Auditoría del diario de inventario",
	}
	// El reporte va a stdout; los logs, en JSON, a stderr.
	ledgerLog := func(cmd *cobra.Command) *logger.Logger {
		return logger.FromWriter(cmd.ErrOrStderr(), cfg.App.LogLevel)
	}
	ledgerCmd.AddCommand(
		&cobra.Command{
			Use:   "verify",
			Short: "Lista los pares cuyo snapshot no cuadra con el diario",
			RunE: func(cmd *cobra.Command, args []string) error {
				return ledgerVerify(cmd.Context(), cmd.OutOrStdout(), cfg, ledgerLog(cmd))
			},
		},
		&cobra.Command{
			Use:   "rebuild <storeId> <productId>",
			Short: "Reescribe el snapshot de un par con la suma del diario",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return ledgerRebuild(cmd.Context(), cmd.OutOrStdout(), cfg, ledgerLog(cmd), args[0], args[1])
			},
		},
	)

	root.AddCommand(serveCmd, migrateCmd, ledgerCmd)
	// Sin subcomando se comporta como serve.
	root.RunE = serveCmd.RunE
	root.Flags().AddFlagSet(serveCmd.Flags())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
