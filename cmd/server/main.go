package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arch-spatula/jmc/config"
	"github.com/arch-spatula/jmc/internal/app/controller"
	"github.com/arch-spatula/jmc/internal/app/repository"
	"github.com/arch-spatula/jmc/internal/app/service"
	"github.com/arch-spatula/jmc/internal/db"
	"github.com/arch-spatula/jmc/internal/editor"
	"github.com/arch-spatula/jmc/internal/middleware"
	"github.com/arch-spatula/jmc/internal/router"
	"github.com/arch-spatula/jmc/internal/scheduler"
	"github.com/arch-spatula/jmc/internal/storage"
	"github.com/arch-spatula/jmc/pkg/logger"
	"github.com/arch-spatula/jmc/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting JMC Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"db_driver":   cfg.Database.Driver,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// 목록 캐시 (선택)
	var cache service.RestaurantCache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = redis.NewListCache(redis.GetClient(), cfg.Redis.TTL)
			defer redis.Close()
		}
	}

	// Initialize repositories and services
	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())
	restaurantService := service.NewRestaurantService(restaurantRepo, cache)
	authService := service.NewAuthService(cfg.Editor)

	// 편집 세션 허브
	hub := editor.NewHub()
	go hub.Run()
	defer hub.Stop()

	// 정기 백업
	if cfg.Backup.Enabled {
		s3 := storage.NewS3Storage(context.Background(), cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.Prefix)
		backup := scheduler.NewBackupScheduler(cfg.Backup.Cron, s3.Prefix(), restaurantService, s3)
		if err := backup.Start(); err != nil {
			logger.Fatal("Failed to start backup scheduler", err)
		}
		defer backup.Stop()
	}

	// Initialize controllers and middleware
	restaurantController := controller.NewRestaurantController(restaurantService)
	authController := controller.NewAuthController(authService)
	editorController := controller.NewEditorController(hub, restaurantService, cfg.CORS.AllowedOrigins)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Editor.JWTSecret, cfg.Editor.PasswordHash)

	if !authMiddleware.Enabled() {
		logger.Warn("EDITOR_PASSWORD_HASH is empty, editing is open to everyone")
	}

	r := router.NewRouter(
		restaurantController,
		authController,
		editorController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
