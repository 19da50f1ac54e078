package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cohort-backend/internal/auth"
	"cohort-backend/internal/cache"
	"cohort-backend/internal/config"
	"cohort-backend/internal/database"
	"cohort-backend/internal/db"
	"cohort-backend/internal/handlers"
	"cohort-backend/internal/health"
	h "cohort-backend/internal/http"
	"cohort-backend/internal/logger"
	"cohort-backend/internal/middleware"
	"cohort-backend/internal/repositories"
	"cohort-backend/internal/services"

	"go.uber.org/zap"
)

func main() {
	log := logger.New()
	defer log.Sync()

	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, log)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatal("migrations failed", zap.Error(err))
	}
	cancel()

	// Redis is optional: a failed connection just disables breakdown caching.
	if err := cache.Init(); err != nil {
		log.Warn("redis unavailable, breakdown caching disabled", zap.Error(err))
	}

	// Repositories
	cohortRepo := repositories.NewCohortRepository(pool)
	feeStructureRepo := repositories.NewFeeStructureRepository(pool)
	scholarshipRepo := repositories.NewScholarshipRepository(pool)
	transactionRepo := repositories.NewTransactionRepository(pool)
	partialConfigRepo := repositories.NewPartialPaymentConfigRepository(pool)

	// Engine components
	structureResolver := services.NewFeeStructureResolver(feeStructureRepo, log)
	scholarshipResolver := services.NewScholarshipResolver(scholarshipRepo, log)
	calculator := services.NewBreakdownCalculator(services.FrontLoadedSplit{}, log)
	scheduler := services.NewDateScheduler(log)
	reconciler := services.NewStatusReconciler(log)
	partialService := services.NewPartialPaymentService(transactionRepo, partialConfigRepo, log)

	engine := services.NewPaymentEngineService(
		structureResolver,
		scholarshipResolver,
		calculator,
		scheduler,
		reconciler,
		partialService,
		cohortRepo,
		transactionRepo,
		time.Duration(cfg.Breakdown.CacheTTLSeconds)*time.Second,
		log,
	)
	statementService := services.NewStatementService()

	// HTTP layer
	jwtManager := auth.NewJWTManager(cfg)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	healthChecker := health.NewHealthChecker(pool)

	engineHandler := handlers.NewPaymentEngineHandler(engine, log)
	statementHandler := handlers.NewStatementHandler(engine, statementService, log)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(engineHandler, statementHandler, healthHandler, authMiddleware)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(log)(
		middleware.RequestLogging(log)(
			middleware.MetricsMiddleware(corsMiddleware(router)),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("server failed to start", zap.Error(err))
	}
}
