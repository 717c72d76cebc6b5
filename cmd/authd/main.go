// Command authd serves the MotorGhar admin authentication API: login,
// token refresh, logout, and session management over PostgreSQL and
// Redis.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	motorauth "github.com/sr198/motorghar-auth"
	"github.com/sr198/motorghar-auth/httpapi"
	"github.com/sr198/motorghar-auth/metrics"
	"github.com/sr198/motorghar-auth/pgstore"
	"github.com/sr198/motorghar-auth/reaper"
	"github.com/sr198/motorghar-auth/redistore"
)

func main() {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pgstore.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	db, err := pgstore.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer redisClient.Close()

	revocation := redistore.NewRevocationStore(redisClient)
	if err := revocation.Ping(ctx); err != nil {
		logger.Error("redis connect failed", "error", err)
		os.Exit(1)
	}

	userStore := pgstore.NewUserStore(db)
	engine, err := motorauth.New().
		WithConfig(motorauth.Config{
			Secret:             cfg.Secret,
			AccessTokenTTL:     cfg.AccessTokenTTL,
			RefreshTokenTTL:    cfg.RefreshTokenTTL,
			Issuer:             cfg.Issuer,
			Audience:           cfg.Audience,
			MaxSessionsPerUser: cfg.MaxSessionsPerUser,
			SessionTTLSeconds:  cfg.SessionTTLSeconds,
			BcryptCost:         cfg.BcryptCost,
		}).
		WithUserStore(userStore).
		WithSessionStore(pgstore.NewSessionStore(db)).
		WithRevocationStore(revocation).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Error("engine build failed", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	reapJob := reaper.NewJob(engine.Sessions(), logger)
	if cfg.ReapIntervalMinutes > 0 {
		reapJob.Interval = time.Duration(cfg.ReapIntervalMinutes) * time.Minute
	}
	go reapJob.Run(ctx)

	authz := motorauth.NewAuthorizer(userStore, logger)
	api := httpapi.NewHandler(engine, authz, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := revocation.Ping(ctx); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", api.Routes())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("authd listening", "addr", cfg.Addr, "issuer", cfg.Issuer)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
