package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/razao-erp/razao-erp/internal/accounting/accounts"
	"github.com/razao-erp/razao-erp/internal/accounting/costcenters"
	"github.com/razao-erp/razao-erp/internal/accounting/journals"
	"github.com/razao-erp/razao-erp/internal/accounting/periods"
	"github.com/razao-erp/razao-erp/internal/accounting/reports"
	"github.com/razao-erp/razao-erp/internal/accounting/types"
	"github.com/razao-erp/razao-erp/internal/app"
	"github.com/razao-erp/razao-erp/internal/auth"
	"github.com/razao-erp/razao-erp/internal/masterdata/companies"
	"github.com/razao-erp/razao-erp/internal/observability"
	"github.com/razao-erp/razao-erp/internal/platform/cache"
	"github.com/razao-erp/razao-erp/internal/platform/db"
	"github.com/razao-erp/razao-erp/internal/rbac"
	"github.com/razao-erp/razao-erp/internal/shared"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalog, err := types.Load(ctx, pool)
	if err != nil {
		logger.Error("load account type catalog", slog.Any("error", err))
		os.Exit(1)
	}

	tokenManager := shared.NewTokenManager(redisClient, cfg.TokenSecret, cfg.TokenTTL)
	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, tokenManager)
	rbacMiddleware := rbac.Middleware{Service: rbac.NewService(pool), Logger: logger}

	companiesHandler := companies.NewHandler(logger, companies.NewService(companies.NewRepository(pool)))
	typesHandler := types.NewHandler(catalog)

	accountsRepo := accounts.NewRepository(pool)
	accountsHandler := accounts.NewHandler(logger, accounts.NewService(accountsRepo, catalog))

	costCentersRepo := costcenters.NewRepository(pool)
	costCentersHandler := costcenters.NewHandler(logger, costcenters.NewService(costCentersRepo))

	periodsService := periods.NewService(periods.NewRepository(pool))
	periodsHandler := periods.NewHandler(logger, periodsService)

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := reports.NewService(reports.NewRepository(pool), accountsRepo, catalog, reportCache)
	reportsHandler := reports.NewHandler(logger, reportsService)

	journalsService := journals.NewService(
		logger,
		journals.NewRepository(pool),
		accountsRepo,
		costCentersRepo,
		periodsService,
		auditLogger,
		reportCache,
	)
	journalsHandler := journals.NewHandler(logger, journalsService)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		TokenManager:       tokenManager,
		AuthHandler:        authHandler,
		CompaniesHandler:   companiesHandler,
		TypesHandler:       typesHandler,
		AccountsHandler:    accountsHandler,
		CostCentersHandler: costCentersHandler,
		PeriodsHandler:     periodsHandler,
		JournalsHandler:    journalsHandler,
		ReportsHandler:     reportsHandler,
		RBACMiddleware:     rbacMiddleware,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			os.Exit(1)
		}
	}
	logger.Info("server stopped")
}
