package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/config"
	"github.com/niaga-platform/service-ads-insights/internal/database"
	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
	"github.com/niaga-platform/service-ads-insights/internal/events"
	"github.com/niaga-platform/service-ads-insights/internal/handlers"
	"github.com/niaga-platform/service-ads-insights/internal/logger"
	"github.com/niaga-platform/service-ads-insights/internal/middleware"
	"github.com/niaga-platform/service-ads-insights/internal/monitoring"
	"github.com/niaga-platform/service-ads-insights/internal/providers/google"
	"github.com/niaga-platform/service-ads-insights/internal/providers/meta"
	"github.com/niaga-platform/service-ads-insights/internal/repository"
	"github.com/niaga-platform/service-ads-insights/internal/routes"
	"github.com/niaga-platform/service-ads-insights/internal/services"
	"github.com/niaga-platform/service-ads-insights/internal/utils"
)

func main() {
	// Load .env file in development
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize Sentry for error tracking
	sentryMonitor, err := monitoring.NewSentryMonitor(&monitoring.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		ServiceName:      "ads-insights-service",
		TracesSampleRate: 0.1,
	}, zlog)
	if err != nil {
		zlog.Warn("Failed to initialize Sentry", zap.Error(err))
	}
	defer sentryMonitor.Flush(2 * time.Second)

	// Connection store: Postgres in normal operation, in-memory when the
	// service runs on demo data and has nothing worth persisting.
	encryptor := utils.NewEncryptor(cfg.Security.EncryptionKey, zlog)

	var store repository.ConnectionStore
	if cfg.Metrics.UseMockData {
		zlog.Info("Mock data mode enabled, using in-memory connection store")
		store = repository.NewMemoryConnectionStore()
	} else {
		db, err := database.Connect(&cfg.Database, zlog)
		if err != nil {
			zlog.Fatal("Failed to connect to database", zap.Error(err))
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()
		store = repository.NewGormConnectionStore(db, encryptor)
	}

	// Connect to Redis for the metrics cache (optional)
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			zlog.Warn("Redis unavailable, metrics cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			zlog.Info("Connected to Redis", zap.String("host", cfg.Redis.Host))
		}
	}

	// Connect to NATS (optional - only if configured)
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = nats.Connect(cfg.NATS.URL)
		if err != nil {
			zlog.Warn("Failed to connect to NATS, connection events disabled", zap.Error(err))
		} else {
			zlog.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
		}
	}
	eventPublisher := events.NewPublisher(natsConn, zlog)

	// Provider clients
	googleAds := google.NewClient(&google.ClientConfig{
		DeveloperToken: cfg.Google.DeveloperToken,
		Logger:         zlog,
	})
	googleOAuth := google.NewOAuthClient(&google.OAuthConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		Logger:       zlog,
	})
	metaAds := meta.NewClient(&meta.ClientConfig{Logger: zlog})
	metaOAuth := meta.NewOAuthClient(&meta.OAuthConfig{
		ClientID:     cfg.Meta.ClientID,
		ClientSecret: cfg.Meta.ClientSecret,
		Logger:       zlog,
	})

	// Services
	metricsService := services.NewMetricsService(&services.MetricsServiceConfig{
		Store:       store,
		GoogleAds:   googleAds,
		GoogleOAuth: googleOAuth,
		MetaAds:     metaAds,
		UseMockData: cfg.Metrics.UseMockData,
		Logger:      zlog,
	})
	connectionService := services.NewConnectionService(&services.ConnectionServiceConfig{
		Store:       store,
		Publisher:   eventPublisher,
		GoogleAds:   googleAds,
		GoogleOAuth: googleOAuth,
		MetaAds:     metaAds,
		MetaOAuth:   metaOAuth,
		Logger:      zlog,
	})
	cacheService := services.NewMetricsCacheService(
		redisClient,
		time.Duration(cfg.Metrics.CacheTTLSeconds)*time.Second,
		zlog,
	)

	// Handlers
	metricsHandler := handlers.NewMetricsHandler(metricsService, cacheService, zlog)
	connectionHandler := handlers.NewConnectionHandler(connectionService, cacheService, zlog)
	connectionHandler.SetRedirectURL(ads.PlatformGoogle, cfg.Google.RedirectURL)
	connectionHandler.SetRedirectURL(ads.PlatformMeta, cfg.Meta.RedirectURL)

	// Set Gin mode
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Apply global middleware
	router.Use(sentryMonitor.GinMiddleware())
	router.Use(sentryMonitor.RecoveryMiddleware())
	router.Use(middleware.RequestLogger(zlog))
	router.Use(middleware.PrometheusInstrumentation())

	// CORS - use environment-based configuration
	allowedOrigins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")
	router.Use(middleware.CORSWithOrigins(allowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "ads-insights",
			"time":    time.Now().UTC(),
		})
	})

	// Setup routes using the routes package
	routes.SetupRoutes(router, &routes.RouteConfig{
		MetricsHandler:    metricsHandler,
		ConnectionHandler: connectionHandler,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zlog.Info("🚀 Ads insights service starting on port " + cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if natsConn != nil {
		natsConn.Close()
	}

	zlog.Info("Server exited")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
