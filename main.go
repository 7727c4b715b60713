package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-reels-server/cache"
	"food-reels-server/config"
	"food-reels-server/database"
	"food-reels-server/handlers"
	"food-reels-server/middleware"
	"food-reels-server/routes"
	"food-reels-server/services"
	"food-reels-server/storage"
	"food-reels-server/utils/logger"
	"food-reels-server/worker"

	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLog.Sync()
	zap.ReplaceGlobals(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.DBName, zapLog)
	if err != nil {
		zapLog.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// Redis is optional; without it every principal lookup hits MongoDB
	var principalCache services.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisDB, "foodreels:")
		if err != nil {
			zapLog.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisCache.Close()
		principalCache = redisCache
		zapLog.Info("Principal cache enabled", zap.String("redis", cfg.RedisAddr))
	}

	imageKit := storage.NewImageKit(cfg.ImageKitPrivateKey, cfg.ImageKitUploadURL, nil)
	zapLog.Info("Object storage configured",
		zap.String("upload_url", cfg.ImageKitUploadURL),
		zap.String("url_endpoint", cfg.ImageKitURLEndpoint),
		zap.Duration("upload_timeout", cfg.UploadTimeout))
	runner := worker.NewRunner(cfg.BackgroundWorkers, cfg.BackgroundWorkers*16, 30*time.Second, zapLog.Named("worker"))

	// Initialize services
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	principalService := services.NewPrincipalService(db, db, principalCache, cfg.TokenTTL, zapLog)
	uploadService := services.NewUploadService(imageKit, cfg.UploadTimeout, zapLog.Named("upload"))
	authService, err := services.NewAuthService(db, db, tokenService, cfg.BcryptCost, zapLog)
	if err != nil {
		zapLog.Fatal("Failed to build auth service", zap.Error(err))
	}
	feedService := services.NewFeedService(db, db, db, principalService, uploadService, runner, zapLog)
	partnerService := services.NewPartnerService(db, db, db, principalService, uploadService, zapLog)

	router := routes.New(routes.Deps{
		Auth:           middleware.NewAuth(tokenService, principalService),
		AuthHandler:    handlers.NewAuthHandler(authService, tokenService, cfg.CookieSecure),
		FeedHandler:    handlers.NewFeedHandler(feedService, cfg.MaxUploadSize, zapLog),
		PartnerHandler: handlers.NewPartnerHandler(partnerService, cfg.MaxUploadSize),
		HealthHandler:  handlers.NewHealthHandler(db),
		AllowedOrigins: cfg.CORSOrigins,
		Log:            zapLog.Named("http"),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("Server starting", zap.String("addr", srv.Addr), zap.String("url", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP shutdown incomplete", zap.Error(err))
	}
	// queued feed writes still need the database
	if err := runner.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Background tasks abandoned", zap.Error(err))
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		zapLog.Error("MongoDB disconnect failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
