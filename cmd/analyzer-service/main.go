package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-sentiment-scryper/internal/analyzer/config"
	delivery "golang-sentiment-scryper/internal/analyzer/delivery/http"
	"golang-sentiment-scryper/internal/analyzer/delivery/scheduler"
	_ "golang-sentiment-scryper/internal/analyzer/docs"
	"golang-sentiment-scryper/internal/analyzer/metrics"
	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/internal/analyzer/service"
	"golang-sentiment-scryper/pkg/logger"
	"golang-sentiment-scryper/pkg/nats"
	"golang-sentiment-scryper/pkg/postgres"
	"golang-sentiment-scryper/pkg/redis"
	"golang-sentiment-scryper/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analyzer service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()
	defer zap.ReplaceGlobals(appLogger.Logger)()

	appLogger.Info("Starting Analyzer Service",
		logger.Field("name", cfg.App.Name),
		logger.StringField("classifier", cfg.Classifier.Provider),
		logger.StringField("default_model", cfg.Classifier.DefaultModel))
	metrics.Init(cfg.App.Name, cfg.App.Version, cfg.App.Env)

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Classification memo, in process unless Redis is enabled
	memo := repository.NewMemoryClassificationCache()
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		memo = repository.NewRedisClassificationCache(redisClient.Client, cfg.Classifier.MemoTTL, appLogger)
	}

	// Result events
	publisher := repository.NewNoopResultPublisher()
	if cfg.NATS.Enabled {
		nc, err := nats.Connect(nats.Config{URL: cfg.NATS.URL, Name: cfg.App.Name})
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS", logger.ErrorField(err))
		}
		defer nc.Drain()
		publisher = repository.NewNATSResultPublisher(nc, cfg.NATS.Subject, appLogger)
	}

	// Initialize repositories
	chatRepo, err := newChatRepository(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize classifier backend", logger.ErrorField(err))
	}
	resultRepo := repository.NewSentimentResultRepository(db.DB)
	feedbackRepo := repository.NewFeedbackRepository(db.DB)
	newsRepo := repository.NewNewsAPIRepository(cfg, appLogger)
	videoRepo := repository.NewYouTubeRepository(cfg, appLogger)

	// Initialize services
	index := service.NewDuplicateIndex(resultRepo, appLogger)
	if err := index.Load(ctx); err != nil {
		appLogger.Warn("Starting with an empty duplicate index", logger.ErrorField(err))
	}
	classifier := service.NewClassificationService(chatRepo, memo, resultRepo, publisher, appLogger)
	newsAnalyzer := service.NewNewsAnalyzer(cfg, newsRepo, classifier, index, appLogger)
	videoAnalyzer := service.NewVideoAnalyzer(cfg, videoRepo, classifier, index, appLogger, time.Now)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, appLogger)
	statisticsSvc := service.NewStatisticsService(resultRepo, feedbackRepo, appLogger)

	// Start maintenance jobs
	maintenance := scheduler.NewMaintenanceScheduler(cfg.Scheduler, index, map[string]scheduler.CachePurger{
		"news":  newsAnalyzer,
		"video": videoAnalyzer,
	}, appLogger)
	if err := maintenance.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start maintenance scheduler", logger.ErrorField(err))
	}
	defer maintenance.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(metrics.Middleware())

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")
	searchHandler := delivery.NewSearchHandler(newsAnalyzer, videoAnalyzer, appLogger)
	searchHandler.RegisterRoutes(apiV1)

	feedbackHandler := delivery.NewFeedbackHandler(feedbackSvc, appLogger)
	feedbackHandler.RegisterRoutes(apiV1.Group("/feedback"))

	statisticsHandler := delivery.NewStatisticsHandler(statisticsSvc, appLogger)
	statisticsHandler.RegisterRoutes(apiV1.Group("/statistics"))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	utils.GoSafe(func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	})

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func newChatRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.ChatRepository, error) {
	switch cfg.Classifier.Provider {
	case "", "ollama":
		return repository.NewOllamaChatRepository(cfg, log), nil
	case "openai":
		return repository.NewOpenAIChatRepository(cfg, log), nil
	case "gemini":
		return repository.NewGeminiChatRepository(ctx, cfg, log)
	case "vader":
		return repository.NewVaderChatRepository(), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Classifier.Provider)
	}
}

// @title Sentiment Analyzer API
// @version 1.0
// @description Streams sentiment classified news and videos and collects feedback on the results.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "analyzer-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-analyzer.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analyzer-service CLI: %s\n", err)
		os.Exit(1)
	}
}
