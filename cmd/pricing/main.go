package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/drivenjp/charter-pricing/internal/pricing"
	"github.com/drivenjp/charter-pricing/internal/promos"
	"github.com/drivenjp/charter-pricing/internal/vehicles"
	"github.com/drivenjp/charter-pricing/pkg/cache"
	"github.com/drivenjp/charter-pricing/pkg/common"
	"github.com/drivenjp/charter-pricing/pkg/config"
	"github.com/drivenjp/charter-pricing/pkg/database"
	"github.com/drivenjp/charter-pricing/pkg/logger"
	"github.com/drivenjp/charter-pricing/pkg/middleware"
	redisclient "github.com/drivenjp/charter-pricing/pkg/redis"
)

const (
	serviceName = "pricing-service"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting pricing service",
		zap.String("service", serviceName),
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
	)

	if err := database.RunMigrations(&cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("Connected to database")

	var (
		redisClient  *redisclient.Client
		cacheManager *cache.Manager
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisclient.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Failed to connect to redis, continuing without cache", zap.Error(err))
		} else {
			cacheManager = cache.NewManager(redisClient)
			logger.Info("Redis cache enabled", zap.String("addr", cfg.Redis.RedisAddr()))
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("Failed to close redis client", zap.Error(err))
				}
			}()
		}
	}

	vehicleRepo := vehicles.NewRepository(db)

	promosRepo := promos.NewRepository(db)
	promosService := promos.NewServiceWithCache(promosRepo, cacheManager)
	promosHandler := promos.NewHandler(promosService)

	pricingRepo := pricing.NewRepository(db)
	pricingService := pricing.NewService(pricingRepo, vehicleRepo, promosService, cacheManager, cfg.Pricing)
	pricingHandler := pricing.NewHandler(pricingService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	router.GET("/healthz", common.HealthCheck(serviceName, version))
	router.GET("/health/live", common.LivenessProbe(serviceName, version))

	healthChecks := map[string]func() error{
		"database": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.Ping(ctx)
		},
	}
	if redisClient != nil {
		healthChecks["redis"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Client.Ping(ctx).Err()
		}
	}
	router.GET("/health/ready", common.ReadinessProbe(serviceName, version, healthChecks))

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"version": version,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWT.Secret, cfg.Server.Environment))

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(cfg.Server.Environment))

	pricingHandler.RegisterRoutes(api, admin)
	promosHandler.RegisterRoutes(api, admin)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
