package main

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"smartedtech/internal/config"
	"smartedtech/internal/handlers"
	"smartedtech/internal/models"
	"smartedtech/internal/repository"
	"smartedtech/internal/security"
	"smartedtech/internal/service"
	"smartedtech/internal/upstream"
)

const (
	upstreamTimeout   = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
	cleanupInterval   = time.Hour
	limiterSweepEvery = 5 * time.Minute
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store (sql, redis or memory)
	store, closeStore, err := repository.OpenSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open session store", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close session store", zap.Error(err))
		}
	}()

	// Load templates
	templates, err := handlers.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}
	logger.Info("templates loaded", zap.String("path", cfg.TemplatesPath))

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Upstream backend
	client := upstream.NewClient(cfg.UpstreamURL, &http.Client{Timeout: upstreamTimeout}, logger, upstream.NewMetrics(registry))

	// Initialize services
	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize email service", zap.Error(err))
	}

	signer := security.NewTokenSigner(cfg.SessionSecret)
	authService := service.NewAuthService(client, store, signer, emailService, service.AuthOptions{
		SessionDuration: cfg.SessionDuration,
		Demo:            cfg.IsDemoAuth(),
	}, logger)
	scheduleService := service.NewScheduleService()
	practices := service.NewOptimisticList[models.AdaptivePractice]()
	tutorSessions := service.NewOptimisticList[models.TutorSession]()
	leaderboard := service.NewLeaderboard(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())))

	limiter := security.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	go limiter.RunSweeper(ctx, limiterSweepEvery)

	// Initialize handlers
	views := handlers.NewRenderer(templates, signer, logger)
	middleware := handlers.NewMiddleware(authService, signer, limiter, logger)
	middleware.TrustProxy = cfg.TrustProxy

	h := &handlers.Handlers{
		Middleware: middleware,
		Auth:       handlers.NewAuthHandler(authService, views, logger, scheduleService, practices, tutorSessions),
		Dashboard:  handlers.NewDashboardHandler(client, views, logger),
		Practice:   handlers.NewPracticeHandler(client, practices, views, logger),
		Tutor:      handlers.NewTutorHandler(client, tutorSessions, views, logger),
		Booster:    handlers.NewBoosterHandler(client, views, logger),
		Schedule:   handlers.NewScheduleHandler(scheduleService, views, logger),
		Pages:      handlers.NewPagesHandler(authService, leaderboard, views, logger),
		Relay:      handlers.NewRelayHandler(client, logger),
		StaticPath: cfg.StaticFilesPath,
		Metrics:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(ctx, authService, cleanupInterval, logger)

	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("upstream", cfg.UpstreamURL),
			zap.String("auth_mode", cfg.AuthMode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(ctx context.Context, authService *service.AuthService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authService.CleanupExpiredSessions(ctx)
			if err != nil {
				logger.Error("failed to clean up expired sessions", zap.Error(err))
				continue
			}
			logger.Info("expired sessions cleaned up", zap.Int64("removed", n))
		}
	}
}
