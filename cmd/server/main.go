package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialverse/config"
	"github.com/d60-Lab/socialverse/internal/api"
	"github.com/d60-Lab/socialverse/internal/api/handler"
	"github.com/d60-Lab/socialverse/internal/middleware"
	"github.com/d60-Lab/socialverse/internal/relay"
	"github.com/d60-Lab/socialverse/internal/repository"
	"github.com/d60-Lab/socialverse/internal/service"
	"github.com/d60-Lab/socialverse/internal/usercache"
	"github.com/d60-Lab/socialverse/pkg/database"
	"github.com/d60-Lab/socialverse/pkg/logger"
	"github.com/d60-Lab/socialverse/pkg/tracing"
)

// @title SocialVerse API
// @version 1.0
// @description Posts, comments and a real-time comment relay.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("FATAL: invalid configuration", zap.Error(err))
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.OTLPEndpoint, cfg.Tracing.ServiceName)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database connection error", zap.Error(err))
	}
	logger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis connection error", zap.Error(err))
		}
	}

	// repositories & services
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	var lookup repository.UserLookup = repository.NewUserLookup(db)
	if rdb != nil {
		lookup = usercache.New(lookup, rdb, cfg.Cache.UserTTL)
	}
	authSvc := service.NewAuthService(userRepo, service.AuthOptions{
		Secret:     []byte(cfg.JWT.Secret),
		TTL:        cfg.JWT.TTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	contentSvc := service.NewContentService(postRepo, lookup)

	// relay
	hub := relay.NewHub(cfg.Relay.SendBuffer, cfg.Server.CORSOrigin)
	stopBridge := func(context.Context) error { return nil }
	if rdb != nil && cfg.Relay.RedisChannel != "" {
		bridge := relay.NewBridge(rdb, cfg.Relay.RedisChannel, cfg.Relay.BridgeWorkers, cfg.Relay.BridgeQueue, hub.Broadcast)
		if stopBridge, err = bridge.Start(ctx); err != nil {
			logger.Fatal("relay bridge start failed", zap.Error(err))
		}
		hub.AttachBridge(bridge)
	}
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	gin.SetMode(cfg.Server.Mode)
	router, err := api.NewRouter(handler.NewHandler(authSvc, contentSvc, hub), authSvc, api.RouterOptions{
		CORSOrigin:  cfg.Server.CORSOrigin,
		Swagger:     cfg.Server.Swagger,
		ServiceName: cfg.Tracing.ServiceName,
		AuthLimiter: middleware.NewIPRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst),
	})
	if err != nil {
		logger.Fatal("router setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server running", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	stopHub()
	if err := stopBridge(shutdownCtx); err != nil {
		logger.Warn("relay bridge stop", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		logger.Warn("database close", zap.Error(err))
	}
}
