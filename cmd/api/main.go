package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rakshithjm97/ivms3/internal/access"
	"github.com/rakshithjm97/ivms3/internal/auth"
	"github.com/rakshithjm97/ivms3/internal/cache"
	"github.com/rakshithjm97/ivms3/internal/config"
	"github.com/rakshithjm97/ivms3/internal/db"
	httpx "github.com/rakshithjm97/ivms3/internal/http"
	"github.com/rakshithjm97/ivms3/internal/http/handlers"
	"github.com/rakshithjm97/ivms3/internal/metadata"
	"github.com/rakshithjm97/ivms3/internal/notifications"
	"github.com/rakshithjm97/ivms3/internal/observability"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("api exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	startCtx, cancel := config.WithTimeout(30 * time.Second)
	defer cancel()

	shutdownTracer, err := observability.InitTracer(startCtx, cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	pool, err := db.NewPool(startCtx, cfg.DBURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// schema changes happen once here, never per request
	if err := db.Migrate(startCtx, pool); err != nil {
		return err
	}

	created, err := db.EnsureAdminUser(startCtx, pool, cfg)
	if err != nil {
		return err
	}
	if created > 0 {
		log.Info("seeded accounts", "count", created)
	}

	policy, err := access.LoadPolicy(cfg.AccessPolicyPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	ready := map[string]handlers.Pinger{"db": pool}

	var store cache.Store
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		defer func() { _ = rc.Close() }()

		store = rc
		ready["redis"] = rc
	} else {
		store = cache.New(cfg.CacheTTL)
	}

	router := httpx.NewRouter(httpx.Deps{
		Cfg:      cfg,
		Pool:     pool,
		Prom:     prom,
		JWT:      auth.NewManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL()),
		Scoper:   access.NewScoper(policy),
		Cache:    store,
		Metadata: metadata.NewLoader(cfg.MetadataPath, store),
		Notifier: newNotifier(cfg, log),
		Ready:    ready,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "use_both_sources", cfg.UseBothSources)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	log.Info("server shutting down")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

// newNotifier picks SMTP delivery when a host is configured, log delivery otherwise. Reset links
// reach the log only in dev.
func newNotifier(cfg config.Config, log *slog.Logger) notifications.Notifier {
	var inner notifications.Notifier
	if cfg.SMTPHost != "" {
		inner = notifications.NewSMTPNotifier(notifications.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		inner = notifications.NewLogNotifier(log, cfg.Env == "dev")
	}

	return notifications.NewProtectedNotifier(inner, notifications.ProtectedNotifierConfig{
		Timeout:          5 * time.Second,
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
	})
}
