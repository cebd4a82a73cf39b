package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/nclexnav/internal/api"
	"github.com/vytor/nclexnav/internal/config"
	"github.com/vytor/nclexnav/internal/content"
	"github.com/vytor/nclexnav/internal/db"
	"github.com/vytor/nclexnav/internal/jobs"
	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/metrics"
	"github.com/vytor/nclexnav/internal/repository/sqlite"
	"github.com/vytor/nclexnav/internal/services"
	"github.com/vytor/nclexnav/internal/worker"
)

const janitorInterval = time.Minute

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
		logger.WithFile(logger.FileConfig{
			Path:       cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
			Compress:   true,
		}),
	)
	logger.SetDefault(log)
	defer func() { _ = log.Close() }()

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("NCLEX Navigator Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("log_file=%s", cfg.LogFile)
	log.Debug("result_worker_count=%d", cfg.ResultWorkerCount)
	log.Debug("result_queue_size=%d", cfg.ResultQueueSize)
	log.Debug("rate_limit=%g rps, burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	log.Debug("session_idle_timeout=%v", cfg.SessionIdleTimeout())
	log.Debug("content_dir=%s", cfg.ContentDir)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		_ = database.Close()
	}()

	catalog, err := content.Load(cfg.ContentDir)
	if err != nil {
		log.Error("failed to load content catalog: %v", err)
		os.Exit(1)
	}
	log.Info("content catalog loaded: %d categories, %d questions, %d plans, %d resources",
		len(catalog.Categories), len(catalog.Questions), len(catalog.Plans), len(catalog.Resources))

	m := metrics.New()

	// Results are written by a worker pool so finishing a test never waits on
	// the database.
	resultPool := worker.NewPool(cfg.ResultWorkerCount, cfg.ResultQueueSize)
	resultPool.SetObserver(m.ObserveJob)
	m.TrackQueueDepth("results", resultPool.QueueSize)
	resultQueue := jobs.NewWorkerQueue(resultPool, nil)

	// Initialize repositories and services
	historyService := services.NewHistoryService(sqlite.NewHistoryRepository(database.DB), m)
	resultQueue.SetRecorder(historyService)

	profileService := services.NewProfileService(sqlite.NewProfileRepository(database.DB))
	practiceService := services.NewPracticeService(catalog, resultQueue, m,
		services.WithIdleTimeout(cfg.SessionIdleTimeout()),
	)
	studyPlanService := services.NewStudyPlanService(sqlite.NewPreferenceRepository(database.DB), catalog, time.Now)
	libraryService := services.NewLibraryService(sqlite.NewLibraryRepository(database.DB), catalog)
	dashboardService := services.NewDashboardService(historyService, studyPlanService, libraryService)

	limiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	srv := &api.Server{
		ProfileService:   profileService,
		PracticeService:  practiceService,
		HistoryService:   historyService,
		StudyPlanService: studyPlanService,
		LibraryService:   libraryService,
		DashboardService: dashboardService,
		DB:               database,
		Metrics:          m,
		RateLimiter:      limiter,
	}

	resultPool.Start(ctx)
	go limiter.Run(ctx)
	go practiceService.RunJanitor(ctx, janitorInterval)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Stop session timers so none fires into a stopped pool.
	log.Debug("closing practice sessions")
	practiceService.Close()

	log.Debug("stopping result pool")
	resultPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("NCLEX Navigator Server Stopped")
	log.Info("===========================================")
}
