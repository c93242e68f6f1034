package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/studyflow/planner-backend/internal/config"
	"github.com/studyflow/planner-backend/internal/database"
	"github.com/studyflow/planner-backend/internal/handler"
	"github.com/studyflow/planner-backend/internal/logger"
	"github.com/studyflow/planner-backend/internal/repository"
	"github.com/studyflow/planner-backend/internal/router"
	"github.com/studyflow/planner-backend/internal/service"
	"github.com/studyflow/planner-backend/internal/validator"
	"github.com/studyflow/planner-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting StudyFlow Planner Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	settingService := service.NewSettingService(settingRepo, log)
	examService := service.NewExamService(examRepo, log)
	planService := service.NewPlanService(planRepo, examRepo, settingService, rdb, log)
	sessionService := service.NewSessionService(sessionRepo, rdb, log)
	statsService := service.NewStatsService(examRepo, planRepo, sessionRepo, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService, userRepo),
		Exam:    handler.NewExamHandler(examService),
		Plan:    handler.NewPlanHandler(planService),
		Session: handler.NewSessionHandler(sessionService),
		Stats:   handler.NewStatsHandler(statsService),
		Setting: handler.NewSettingHandler(settingService),
		WS:      handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	ingestWorker := worker.NewSessionIngestWorker(sessionRepo, rdb, log)
	go ingestWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the ingest worker and let it drain the queue.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
