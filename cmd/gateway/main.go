package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davidakinola/tierpay/internal/application/services"
	"github.com/davidakinola/tierpay/internal/config"
	"github.com/davidakinola/tierpay/internal/infrastructure/persistence"
	"github.com/davidakinola/tierpay/internal/infrastructure/persistence/postgres"
	"github.com/davidakinola/tierpay/internal/infrastructure/provider"
	"github.com/davidakinola/tierpay/internal/infrastructure/recordstore"
	"github.com/davidakinola/tierpay/internal/interfaces/rest/handlers"
	"github.com/davidakinola/tierpay/internal/interfaces/rest/middleware"
	"github.com/davidakinola/tierpay/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting gateway service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := persistence.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ledger := postgres.NewLedgerRepository(db.Pool)

	providerClient := provider.NewClient(cfg.Provider)
	retryProvider := provider.NewRetryClient(providerClient, cfg.Retry)
	tokenSource := provider.NewCachedTokenSource(retryProvider, cfg.Provider.AuthTimeout)

	records := recordstore.NewClient(cfg.RecordStore)

	createService := services.NewCreateOrderService(
		tokenSource,
		retryProvider,
		ledger,
		cfg.Provider.ReturnURL,
		cfg.Provider.CancelURL,
		logger,
	)
	captureService := services.NewCaptureService(tokenSource, retryProvider, records, ledger, logger)
	cancelService := services.NewCancelService(ledger, logger)
	queryService := services.NewQueryService(ledger)

	h := handlers.NewHandlers(
		createService,
		captureService,
		cancelService,
		queryService,
		logger,
	)

	router := http.Handler(h.Router())
	router = middleware.Recovery(logger)(router)
	router = middleware.Logging(logger)(router)
	router = middleware.Timeout(cfg.Server.ReadTimeout)(router)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	reconciler := worker.NewReconciler(
		ledger,
		records,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go reconciler.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
