// File: apptbot/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apptbot/bootstrap"
	"apptbot/config"
	"apptbot/cron"
	"apptbot/database"
	"apptbot/handlers"
	"apptbot/middleware"
	"apptbot/routes"
	"apptbot/services/tasks"
	"apptbot/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	config.LoadConfig()
	cfg := &config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Sugar().Fatalf("main: invalid configuration: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := utils.NewMetrics(registry)

	ctx := context.Background()
	oracle, closeOracle, err := bootstrap.BuildOracle(ctx, cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize oracle: %v", err)
	}
	defer closeOracle()

	store, err := bootstrap.BuildCalendarStore(ctx, cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar store: %v", err)
	}
	scheduler := bootstrap.BuildScheduler(cfg, oracle, store, logger, metrics)

	appointmentHandler := &handlers.AppointmentHandler{
		Scheduler:  scheduler,
		Location:   cfg.DefaultLocation(),
		JobTimeout: 2*cfg.OracleTimeout() + time.Minute,
		Metrics:    metrics,
	}

	var (
		redisClients []*redis.Client
		queue        *asynq.Client
		worker       *asynq.Server
	)
	if cfg.AsyncEnabled {
		outcomeClient := utils.GetOutcomeClient()
		redisClients = append(redisClients, outcomeClient)
		outcomes := tasks.NewRedisOutcomeStore(outcomeClient, cfg.OutcomeTTL())

		queue = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		})
		worker = cron.InitScheduleWorker(scheduler, outcomes)

		appointmentHandler.Queue = queue
		appointmentHandler.Outcomes = outcomes
	}

	var mongoClient *mongo.Client
	if cfg.CalendarBackend == "mongo" {
		mongoClient = database.MongoClient
	}
	utils.StartHealthMonitor(redisClients, mongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(appointmentHandler), registry)

	// Start the HTTP server.
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

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		if err := queue.Close(); err != nil {
			logger.Sugar().Warnf("main: closing task queue: %v", err)
		}
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Sugar().Warnf("main: closing database: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
