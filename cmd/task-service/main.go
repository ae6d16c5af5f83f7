package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/tasktracker/internal/auth"
	"github.com/Varun5711/tasktracker/internal/cache"
	"github.com/Varun5711/tasktracker/internal/config"
	"github.com/Varun5711/tasktracker/internal/handlers"
	"github.com/Varun5711/tasktracker/internal/lock"
	"github.com/Varun5711/tasktracker/internal/logger"
	"github.com/Varun5711/tasktracker/internal/middleware"
	"github.com/Varun5711/tasktracker/internal/redis"
	"github.com/Varun5711/tasktracker/internal/service"
	"github.com/Varun5711/tasktracker/internal/storage"
	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.New("task-service")
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("Task service stopped: %v", err)
	}
	log.Info("Task service stopped")
}

func run(log *logger.Logger) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetStdLog()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if cfg.InsecureSecret() {
		log.Warn("JWT_SECRET not set, using default (insecure for production)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.NewRedisClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	switch {
	case errors.Is(err, redis.ErrDisabled):
		log.Info("REDIS_ADDR not set, running with in-process cache and no rate limiting")
	case err != nil:
		return err
	}

	// replicas starting together must not race on CREATE TABLE
	var store storage.Store
	err = lock.WithLock(ctx, redisClient.GetClient(), storage.MigrationLockKey, time.Minute, func() error {
		var openErr error
		store, openErr = storage.Open(ctx, cfg)
		return openErr
	})
	if err != nil {
		if store != nil {
			store.Close()
		}
		redisClient.Close()
		return err
	}
	log.Info("Using %s storage", cfg.Storage.Driver)

	defer func() {
		err = multierr.Combine(err, store.Close(), redisClient.Close())
	}()

	userCache := cache.NewUserCache(cfg.Cache.L1Capacity, redisClient.GetClient(), cfg.Cache.L2TTL)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry).WithIssuer(cfg.Auth.Issuer)
	clock := func() time.Time { return time.Now().In(loc) }

	router := handlers.NewRouter(handlers.RouterConfig{
		Users:          service.NewUserService(store, hasher),
		Auth:           service.NewAuthService(store, hasher, jwtManager, userCache),
		Tasks:          service.NewTaskService(store, store, clock),
		Store:          store,
		Redis:          redisClient,
		Log:            log,
		Limiter:        middleware.NewRateLimiter(redisClient.GetClient(), cfg.RateLimit.Requests, cfg.RateLimit.Window),
		CookieSecure:   cfg.Auth.CookieSecure,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Task service listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down task service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

