package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oneair/oneair-store-api/cache"
	"github.com/oneair/oneair-store-api/config"
	"github.com/oneair/oneair-store-api/controllers"
	"github.com/oneair/oneair-store-api/middleware"
	"github.com/oneair/oneair-store-api/models"
	"github.com/oneair/oneair-store-api/repository"
	"github.com/oneair/oneair-store-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg)
	logger.Info("starting OneAir Store API server", slog.String("env", cfg.GoEnv))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		return err
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	logger.Info("database migration completed successfully")

	store := repository.NewStore(db)
	settings := settingsRepository(ctx, cfg, repository.NewSettingsRepository(db), logger)

	var notifier services.Notifier
	if cfg.ResendAPIKey != "" {
		notifier = services.NewEmailNotifier(cfg, logger)
	} else {
		logger.Warn("RESEND_API_KEY not set, order emails will only be logged")
		notifier = services.NewLogNotifier(logger)
	}

	services.InitOrderManager(store, settings, notifier, logger)
	services.InitSettingsService(settings)

	var storage services.S3Interface
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			return err
		}
		storage = s3Service
	} else {
		logger.Warn("AWS_S3_BUCKET not set, product images are kept in memory")
		storage = services.NewMockS3Service()
	}
	services.InitImageService(storage, store.Products(), logger)

	hub := services.InitAlertHub()
	watcher := services.NewOrderWatcher(store.Orders(), hub, cfg.OrderPollInterval, cfg.AlertSoundURL, logger)
	go watcher.Run(ctx)

	router := setupRouter(cfg, middleware.EnsureValidToken(cfg))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running", slog.String("addr", "http://localhost"+server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// settingsRepository puts the redis cache in front of the settings table when REDIS_URL is set
func settingsRepository(ctx context.Context, cfg *config.Config, repo repository.SettingsRepository, logger *slog.Logger) repository.SettingsRepository {
	if cfg.RedisURL == "" {
		return repo
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, reading settings from the database", slog.Any("error", err))
		return repo
	}
	logger.Info("settings cache enabled", slog.Duration("ttl", cfg.SettingsCacheTTL))
	return cache.NewCachedSettingsRepository(repo, client, cfg.SettingsCacheTTL, logger)
}

// setupRouter builds the gin engine with every route; auth validates the admin's JWT
func setupRouter(cfg *config.Config, auth gin.HandlerFunc) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Admin console routes
		controllers.RegisterAdminRoutes(v1.Group("/admin", auth))
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OneAir Store API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
