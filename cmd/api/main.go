package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/roby-rodriguez/parking-app/internal/actuation"
	"github.com/roby-rodriguez/parking-app/internal/app"
	"github.com/roby-rodriguez/parking-app/internal/clock"
	"github.com/roby-rodriguez/parking-app/internal/config"
	"github.com/roby-rodriguez/parking-app/internal/ratelimit"
	"github.com/roby-rodriguez/parking-app/internal/storage/postgres"
	transporthttp "github.com/roby-rodriguez/parking-app/internal/transport/http"
	"github.com/roby-rodriguez/parking-app/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.Database.URL)
	if err != nil {
		logger.Error("connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", "error", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	var limiter app.RateLimiter = ratelimit.Disabled{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	} else {
		logger.Warn("redis not configured, rate limiting disabled")
	}

	grantRepo := postgres.NewGrantRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	clk := clock.NewSystem()

	grantSvc := app.NewGrantService(grantRepo, auditRepo, clk)

	dialer := actuation.NewRestDialer(actuation.Config{
		AccountSID:  cfg.Actuation.AccountSID,
		AuthToken:   cfg.Actuation.AuthToken,
		FromNumber:  cfg.Actuation.FromNumber,
		APIBaseURL:  cfg.Actuation.APIBaseURL,
		CallbackURL: cfg.Actuation.CallbackURL(),
		Timeout:     cfg.Actuation.Timeout,
	}, logger)

	accessSvc := app.NewAccessService(app.AccessDeps{
		Grants:  grantRepo,
		Audits:  auditRepo,
		Limiter: limiter,
		Dialer:  dialer,
		Gates:   actuation.PhoneBook(cfg.Actuation.GatePhoneList()),
		Clock:   clk,
		Logger:  logger,
	})

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("jwt secret not configured, admin endpoints will reject all requests")
	}

	handler := transporthttp.NewRouter(transporthttp.RouterConfig{
		Grants:       grantSvc,
		Access:       accessSvc,
		CORSOrigins:  cfg.Server.CORSOriginList(),
		JWTSecret:    cfg.Auth.JWTSecret,
		Logger:       logger,
		WebhookSlug:  cfg.Actuation.WebhookSlug,
		PulseSeconds: cfg.Actuation.PulseSeconds,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: handler,
	}

	logger.Info("api listening", "port", cfg.Server.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
