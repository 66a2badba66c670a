package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/teamcal-backend/internal/adapter/ical"
	"github.com/heartmarshall/teamcal-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamcal-backend/internal/adapter/postgres/calendar"
	"github.com/heartmarshall/teamcal-backend/internal/adapter/postgres/event"
	"github.com/heartmarshall/teamcal-backend/internal/adapter/postgres/group"
	"github.com/heartmarshall/teamcal-backend/internal/adapter/redislock"
	"github.com/heartmarshall/teamcal-backend/internal/auth"
	"github.com/heartmarshall/teamcal-backend/internal/config"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule"
	"github.com/heartmarshall/teamcal-backend/internal/transport/middleware"
	"github.com/heartmarshall/teamcal-backend/internal/transport/rest"
)

// Run is the API server entry point. It loads configuration, connects to the
// database, wires the scheduling service behind the REST transport and serves
// until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("default_timezone", cfg.Calendar.DefaultTimezone),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("app.Run: %w", err)
	}
	defer pool.Close()

	health := rest.NewHealthHandler(pool, shortVersion(), cfg.Calendar.DefaultTimezone)

	var seriesLock schedule.SeriesLock
	if cfg.Redis.Enabled() {
		client, err := redislock.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("app.Run: %w", err)
		}
		defer client.Close()

		locker := redislock.New(client, cfg.Redis.KeyPrefix, cfg.Redis.LockTTL)
		seriesLock = locker
		health = health.WithRedis(locker)
		logger.Info("series locks in redis", slog.String("addr", cfg.Redis.Addr))
	}

	events := event.New(pool)
	calendars := calendar.New(pool)
	svc := schedule.NewService(
		logger,
		events,
		group.New(pool),
		calendars,
		calendars,
		postgres.NewTxManager(pool),
		schedule.Config{
			DefaultTimezone:   cfg.Calendar.DefaultTimezone,
			MaxWindow:         cfg.Calendar.MaxWindow(),
			MaxOccurrences:    cfg.Calendar.MaxOccurrences,
			ConflictLookahead: cfg.Calendar.ConflictLookahead(),
			SeriesLock:        seriesLock,
		},
	)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	var limit middleware.Middleware
	if cfg.Server.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
		limit = limiter.Limit(cfg.Server.RateLimit)
	}
	api := middleware.Chain(
		middleware.Auth(jwtManager),
		middleware.Timezone,
		middleware.Logger(logger),
		limit,
	)

	router := newRouter(handlers{
		health:    health,
		events:    rest.NewEventHandler(svc, logger),
		calendars: rest.NewCalendarHandler(svc, calendars, ical.NewExporter(cfg.Calendar.ICalProdID, cfg.Calendar.ICalUIDDomain), logger),
	}, api)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, logger, srv, cfg.Server.ShutdownTimeout)
}

// serve runs srv until ctx is cancelled or the listener fails.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("app.serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app.serve shutdown: %w", err)
	}
	return nil
}
