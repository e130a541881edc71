package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/evraktakip/evraktakip/internal/adapter/http"
	"github.com/evraktakip/evraktakip/internal/adapter/http/handler"
	"github.com/evraktakip/evraktakip/internal/adapter/http/middleware"
	"github.com/evraktakip/evraktakip/internal/adapter/notify"
	"github.com/evraktakip/evraktakip/internal/adapter/rates"
	postgresRepo "github.com/evraktakip/evraktakip/internal/adapter/repository/postgres"
	redisRepo "github.com/evraktakip/evraktakip/internal/adapter/repository/redis"
	"github.com/evraktakip/evraktakip/internal/adapter/spreadsheet"
	"github.com/evraktakip/evraktakip/internal/infrastructure/config"
	"github.com/evraktakip/evraktakip/internal/infrastructure/logger"
	"github.com/evraktakip/evraktakip/internal/infrastructure/metrics"
	"github.com/evraktakip/evraktakip/internal/infrastructure/postgres"
	"github.com/evraktakip/evraktakip/internal/infrastructure/redis"
	"github.com/evraktakip/evraktakip/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.SetGlobalLevel(log.Logger.GetLevel())

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	docRepo := postgresRepo.NewDocumentRepository(pool)
	historyRepo := postgresRepo.NewHistoryRepository(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	installmentRepo := postgresRepo.NewInstallmentRepository(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	bankRepo := postgresRepo.NewBankRepository(pool)
	userDirectory := postgresRepo.NewUserDirectory(pool)
	txManager := postgresRepo.NewTxManager(pool)
	idGen := postgresRepo.NewULIDGenerator()
	rateStore := redisRepo.NewRateStore(redisClient, cfg.RatesCacheTTL)

	// Metrics
	appMetrics := metrics.New()

	// Notifications
	var notifier usecase.Notifier
	if cfg.NotificationsEnabled() {
		notifier = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatIDs, cfg.NotifyTimeout)
		log.Info().Int("recipients", len(cfg.TelegramChatIDs)).Msg("telegram notifications enabled")
	}

	// Exchange rates
	rateService := rates.NewService(cfg.RatesURL, cfg.RatesTimeout, rateStore)

	// Initialize use cases
	documentUC := usecase.NewDocumentUseCase(
		docRepo, historyRepo, customerRepo, userDirectory,
		notifier, idGen, log.Logger, appMetrics,
	)
	loanUC := usecase.NewLoanUseCase(
		txManager, loanRepo, installmentRepo, idGen, usecase.SystemClock{}, appMetrics,
	).WithRetrier(postgresRepo.NewRetrier())
	importUC := usecase.NewImportUseCase(
		spreadsheet.NewExcelReader(), docRepo, historyRepo, customerRepo, idGen, appMetrics,
	)
	customerUC := usecase.NewCustomerUseCase(customerRepo, idGen)
	bankUC := usecase.NewBankUseCase(bankRepo, idGen)

	// Initialize handlers
	documentHandler := handler.NewDocumentHandler(documentUC, spreadsheet.WriteDocuments)
	importHandler := handler.NewImportHandler(importUC, cfg.MaxUploadBytes)
	loanHandler := handler.NewLoanHandler(loanUC)
	customerHandler := handler.NewCustomerHandler(customerUC, bankUC)
	ratesHandler := handler.NewRatesHandler(rateService)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	rateLimiter := middleware.NewRateLimiter(100, 200)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rateLimiter.Cleanup()
		}
	}()

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		DocumentHandler: documentHandler,
		ImportHandler:   importHandler,
		LoanHandler:     loanHandler,
		CustomerHandler: customerHandler,
		RatesHandler:    ratesHandler,
		HealthHandler:   healthHandler,
		RateLimiter:     rateLimiter,
		Logger:          log.Logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Report pool usage to the connections gauge
	go reportPoolStats(ctx, pool, appMetrics)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// reportPoolStats feeds the database connections gauge from pool stats.
func reportPoolStats(ctx context.Context, pool *pgxpool.Pool, m *metrics.Metrics) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}
}
