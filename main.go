// File: slotcal/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotcal/config"
	"slotcal/cron"
	"slotcal/database"
	timeslotRepo "slotcal/database/repository/timeslot"
	"slotcal/handlers"
	"slotcal/metrics"
	"slotcal/middleware"
	"slotcal/routes"
	"slotcal/services/analytics"
	"slotcal/services/availability"
	ai "slotcal/services/intelligence"
	"slotcal/services/search"
	"slotcal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	loc := cfg.Location()

	database.InitDB()
	cacheClient := utils.GetCacheClient()
	contextClient := utils.GetContextCacheClient()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	// repositories.
	slotRepo := timeslotRepo.NewMongoTimeSlotRepo()
	if err := slotRepo.EnsureIndexes(); err != nil {
		logger.Fatal("main: failed to ensure slot indexes", zap.Error(err))
	}

	// analytics, cached in memory first and then in redis.
	analyticsCache := analytics.TieredCache{
		Local:  analytics.NewMemoryCache(cfg.AnalyticsCacheSize, cfg.AnalyticsCacheTTL()),
		Shared: analytics.NewRedisCache(cacheClient, cfg.AnalyticsCacheTTL()),
	}
	engine := analytics.NewEngine(analyticsCache, logger, recorder)

	// AI collaborator is optional; without a key every complex query uses basic search.
	var extractor search.CriteriaExtractor
	var gemini *ai.GeminiClient
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("main: gemini unavailable, AI search disabled", zap.Error(err))
		} else {
			gemini = client
			extractor = ai.NewExtractor(client, cfg.AITimeout(), logger)
		}
	} else {
		logger.Info("main: GEMINI_API_KEY not set, AI search disabled")
	}
	orchestrator := search.NewOrchestrator(extractor, logger, recorder, loc)
	orchestrator.Sequencer = search.NewSequencer(0, cfg.SearchContextTTL())
	contextStore := search.NewRedisContextStore(contextClient, cfg.SearchContextTTL())

	queue := asynq.NewClient(cron.QueueRedisOpt())
	availabilityService := availability.NewAvailabilityService(slotRepo, queue, logger, loc)
	worker := cron.InitAnalyticsWorker(slotRepo, engine)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	monitor := utils.NewHealthMonitor(database.MongoClient, map[string]*redis.Client{
		"cache":   cacheClient,
		"context": contextClient,
	})
	monitor.Start(monitorCtx, 30*time.Second)

	slotHandler := handlers.NewSlotHandler(availabilityService, orchestrator, contextStore, engine, loc)
	handlerBundle := handlers.NewHandlerBundle(
		slotHandler,
		handlers.HealthHandler(monitor),
		gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	)

	routes.RegisterRoutes(router, handlerBundle, cfg.AllowedOrigins())

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	stopMonitor()
	worker.Shutdown()
	if err := queue.Close(); err != nil {
		logger.Warn("main: closing task client", zap.Error(err))
	}
	if gemini != nil {
		_ = gemini.Close()
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: closing MongoDB", zap.Error(err))
	}
	_ = logger.Sync()

	logger.Sugar().Info("main: server stopped gracefully")
}
