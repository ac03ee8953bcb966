/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env, config file and environment
  2. Apply command-line flags
  3. Build logger, journal and in-memory directory
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (optional)
  -env     .env file to load (default: .env, missing is fine)
  -port    HTTP server port (overrides config)
  -db      SQLite journal path (overrides config)
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  PAYROLL_PORT, PAYROLL_DB, PAYROLL_JOURNAL_DRIVER, PAYROLL_LOG_LEVEL,
  PAYROLL_LOG_DEVELOPMENT, PAYROLL_ALLOWED_ORIGINS

EXAMPLES:
  ./server -config=./payroll.yaml
  ./server -db=":memory:" -port=3000

SEE ALSO:
  - config/config.go: Configuration loading
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/warp/payroll/api"
	"github.com/warp/payroll/config"
	"github.com/warp/payroll/payroll"
	"github.com/warp/payroll/payroll/store"
	"github.com/warp/payroll/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML config file")
	envPath := flag.String("env", ".env", ".env file")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite journal path")
	flag.Parse()

	if err := config.LoadEnvFile(*envPath); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Journal.Driver = config.DriverSQLite
		cfg.Journal.Path = *dbPath
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	journal, closeJournal, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	defer closeJournal()

	runner := payroll.NewRunner(store.NewTxMemory(), journal, logger.Named("runner"))
	handler := api.NewHandler(runner, logger.Named("api"))
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * 4,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("journal", cfg.Journal.Driver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func openJournal(cfg config.JournalConfig) (payroll.Journal, func() error, error) {
	if cfg.Driver == config.DriverMemory {
		return store.NewMemoryJournal(), func() error { return nil }, nil
	}
	db, err := sqlite.New(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize journal: %w", err)
	}
	return db, db.Close, nil
}
