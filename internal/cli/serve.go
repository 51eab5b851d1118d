package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haskel/calburn/internal/logger"
	"github.com/haskel/calburn/internal/monitor"
	"github.com/haskel/calburn/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the calburn web server",
	Long: `Load the trained artifacts and serve the prediction form and JSON API.

The preprocessor and model artifacts must exist (run 'calburn train' first,
or configure artifacts.s3 to fetch them). A missing or corrupt artifact
stops startup with a non-zero exit.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override bind address if specified via flag
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	log.Info("calburn starting",
		"version", Version,
		"config", cfgFile,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pred, store, err := loadPredictor(ctx, cfg, log)
	if err != nil {
		log.Error("failed to load artifacts", "error", err)
		return err
	}

	agg := monitor.NewAggregator(monitor.Defaults([]string{store.Dir()}, log), cfg.MonitorInterval(), log)
	agg.Start(ctx)

	srv := server.New(cfg, pred, store, agg, log, Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Handle shutdown signals
	go func() {
		<-sigCh

		log.Info("shutdown signal received")
		signal.Stop(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}

		agg.Stop()
		cancel()
	}()

	log.Info("calburn ready", "addr", srv.Addr())

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("calburn stopped")
	return nil
}
