package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/mstgnz/gopos/handler"
	"github.com/mstgnz/gopos/infra/config"
	"github.com/mstgnz/gopos/infra/conn"
	"github.com/mstgnz/gopos/infra/logger"
	"github.com/mstgnz/gopos/infra/metrics"
	"github.com/mstgnz/gopos/infra/middle"
	"github.com/mstgnz/gopos/infra/opensearch"
	"github.com/mstgnz/gopos/infra/storage"
	"github.com/mstgnz/gopos/installment"
	"github.com/mstgnz/gopos/provider"
	_ "github.com/mstgnz/gopos/provider/all"
	"github.com/mstgnz/gopos/provider/bridge"
	"github.com/mstgnz/gopos/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .env is optional, the environment wins
	_ = godotenv.Load(".env")

	cfg := config.Load()
	_ = config.App()

	osLogger := newOpenSearchLogger(cfg)
	logger.InitGlobalLogger(osLogger, cfg)
	metrics.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, store := openCatalog(ctx, cfg)
	defer db.Close()

	connectors := bridge.New(bridge.Config{
		URL:        cfg.ConnectorURL,
		Timeout:    cfg.ConnectorTimeout,
		Production: cfg.IsProduction(),
		Headers:    connectorHeaders(cfg),
	})
	orchestrator := provider.NewOrchestrator(connectors,
		provider.WithTimeout(cfg.ConnectorTimeout),
		provider.WithObserver(transactionObserver(osLogger)),
	)

	limiter := middle.NewRateLimiter(cfg.RateLimitPerMinute)
	defer limiter.Stop()

	api := router.New(router.Deps{
		Config:       cfg,
		Orchestrator: orchestrator,
		Installments: installment.NewEngine(store),
		Catalog:      store,
		Gateways:     provider.DefaultRegistry,
		Audit:        auditReader(osLogger),
		RateLimiter:  limiter,
		AccessLog:    logger.GetGlobalLogger().Console(),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           api,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 30*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", err)
		}
	}()

	logger.Info("API is running", logger.LogContext{Fields: map[string]any{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"gateways":    provider.GatewayTypes(),
	}})

	<-ctx.Done()
	logger.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", err)
	}
}

// newOpenSearchLogger returns nil when OpenSearch logging is off or the
// client cannot be built. Index setup failures are logged and tolerated.
func newOpenSearchLogger(cfg *config.AppConfig) *opensearch.Logger {
	if !cfg.EnableLogging {
		return nil
	}
	client, err := opensearch.NewClient(cfg)
	if client == nil {
		fmt.Fprintf(os.Stderr, "opensearch client: %v, continuing without it\n", err)
		return nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "opensearch: %v\n", err)
	}
	return opensearch.NewLogger(client)
}

func openCatalog(ctx context.Context, cfg *config.AppConfig) (*conn.DB, *storage.CatalogStore) {
	if cfg.DBDriver == "sqlite3" && cfg.DBDSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0o755); err != nil {
			logger.Fatal("create database directory", err)
		}
	}

	db, err := conn.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("open catalog database", err)
	}
	store, err := storage.NewCatalogStore(ctx, db)
	if err != nil {
		logger.Fatal("init catalog schema", err)
	}

	seed, err := storage.LoadSeed(cfg.CatalogSeedFile)
	if err != nil {
		logger.Warn("catalog seed not loaded", logger.LogContext{Fields: map[string]any{
			"file": cfg.CatalogSeedFile, "error": err.Error(),
		}})
		return db, store
	}
	seeded, err := store.SeedIfEmpty(ctx, seed)
	if err != nil {
		logger.Fatal("seed catalog", err)
	}
	if seeded {
		logger.Info("catalog seeded", logger.LogContext{Fields: map[string]any{"banks": len(seed.Banks)}})
	}
	return db, store
}

func connectorHeaders(cfg *config.AppConfig) map[string]string {
	if cfg.ConnectorToken == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + cfg.ConnectorToken}
}

// transactionObserver records every orchestration call in metrics and, when
// enabled, in the OpenSearch transaction index
func transactionObserver(osLogger *opensearch.Logger) provider.Observer {
	return provider.ObserverFunc(func(ctx context.Context, event provider.TransactionEvent) {
		metrics.ObserveTransaction(event.GatewayType, string(event.Kind), event.Outcome(), event.Duration)
		if osLogger == nil {
			return
		}

		entry := opensearch.TransactionLog{
			RequestID:   middleware.GetReqID(ctx),
			GatewayType: event.GatewayType,
			BankCode:    event.BankCode,
			Action:      string(event.Kind),
			OrderID:     event.OrderID,
			Outcome:     event.Outcome(),
			Success:     event.Success,
			ErrorCode:   event.ErrorCode,
			DurationMs:  event.Duration.Milliseconds(),
		}
		if event.Err != nil {
			entry.ErrorMessage = event.Err.Error()
		}

		go func() {
			logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := osLogger.LogTransaction(logCtx, entry); err != nil {
				logger.Warn("transaction log not indexed", logger.LogContext{
					Gateway:   entry.GatewayType,
					RequestID: entry.RequestID,
					Fields:    map[string]any{"order_id": entry.OrderID, "error": err.Error()},
				})
			}
		}()
	})
}

// auditReader keeps a nil logger from becoming a non-nil interface
func auditReader(l *opensearch.Logger) handler.AuditReader {
	if l == nil {
		return nil
	}
	return l
}
