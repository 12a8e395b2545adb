package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/lukeacko/worklog/api"
	"github.com/lukeacko/worklog/internal/config"
	"github.com/lukeacko/worklog/internal/db"
	"github.com/lukeacko/worklog/internal/repository/badgerstore"
	"github.com/lukeacko/worklog/internal/repository/sqlite"
	"github.com/lukeacko/worklog/internal/transfer"
	"github.com/lukeacko/worklog/internal/worklog"
	"github.com/lukeacko/worklog/pkg/repository"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting worklog server version %s (built at %s, store %s)", version, buildTime, cfg.Store.Backend)

	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	svc := worklog.NewService(store, store, logger)

	// Default roster on first run, then reconcile any technicians a crashed
	// rename left referenced but missing from the roster.
	if cfg.Store.Backend == config.StoreSQLite {
		if err := svc.SeedDefaults(ctx); err != nil {
			log.Fatalf("Failed to seed technicians: %v", err)
		}
	}
	if err := svc.Reconcile(ctx); err != nil {
		log.Fatalf("Failed to reconcile roster: %v", err)
	}

	tr, err := transfer.New(svc, logger)
	if err != nil {
		log.Fatalf("Failed to set up transfer: %v", err)
	}

	handler := api.SetupRoutes(cfg, version, buildTime, store, svc, tr)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}

	log.Println("Server exited")
}

// openStore selects the persistence backend from configuration; both sides
// of the switch satisfy the same repository.Store contract.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreBadger:
		return badgerstore.Open(cfg.Store.DataDir, logger)
	default:
		conn, err := db.New(ctx, cfg.Store.DatabasePath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		return sqlite.New(conn, logger), nil
	}
}
