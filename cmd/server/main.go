package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/database"
	"github.com/stemsi/resultbook/internal/handler"
	"github.com/stemsi/resultbook/internal/logger"
	"github.com/stemsi/resultbook/internal/middleware"
	"github.com/stemsi/resultbook/internal/repository"
	"github.com/stemsi/resultbook/internal/router"
	"github.com/stemsi/resultbook/internal/service"
	"github.com/stemsi/resultbook/internal/validator"
	"github.com/stemsi/resultbook/internal/worker"
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
		Msg("Starting Resultbook")

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
	operatorRepo := repository.NewOperatorRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	markRepo := repository.NewMarkRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	quickResultRepo := repository.NewQuickResultRepository(pool)

	// ─── Redis-backed stores ───────────────────────────────────────────
	reportCache := service.NewRedisReportCache(rdb, cfg.ReportCacheTTL)
	exportJobs := service.NewRedisExportJobStore(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, operatorRepo, log)
	studentService := service.NewStudentService(studentRepo, reportCache, log)
	subjectService := service.NewSubjectService(subjectRepo, log)
	examService := service.NewExamService(examRepo, reportCache, log)
	settingService := service.NewSettingService(settingRepo, cfg, log)
	reportService := service.NewReportService(examService, reportRepo, settingService, reportCache, log)
	markService := service.NewMarkService(studentService, examService, markRepo, reportCache, log)
	exportService := service.NewExportService(exportJobs, reportService, examService, cfg.ExportDir, log)
	quickResultService := service.NewQuickResultService(quickResultRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, log),
		Student:     handler.NewStudentHandler(studentService, log),
		Subject:     handler.NewSubjectHandler(subjectService, log),
		Exam:        handler.NewExamHandler(examService, log),
		Mark:        handler.NewMarkHandler(markService, log),
		Report:      handler.NewReportHandler(reportService, exportService, log),
		Setting:     handler.NewSettingHandler(settingService, log),
		QuickResult: handler.NewQuickResultHandler(quickResultService, log),
		WS:          handler.NewWSHandler(reportService, reportCache, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	exportWorker := worker.NewExportWorker(rdb, exportService, log)
	go func() {
		exportWorker.Start(workerCtx)
		close(workerDone)
	}()

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	go loginLimiter.Run(workerCtx.Done())

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, loginLimiter, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
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

	// 2. Stop the export worker; a running export is allowed to finish.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(30 * time.Second):
		log.Warn().Msg("Export worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
