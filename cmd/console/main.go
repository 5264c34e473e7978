// Command console serves the admin console API: session login, user
// management, statistics and the audit trail.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/sirpyerre/admin-console/docs"
	"github.com/sirpyerre/admin-console/internal/api"
	"github.com/sirpyerre/admin-console/internal/api/handler"
	"github.com/sirpyerre/admin-console/internal/core/ports"
	"github.com/sirpyerre/admin-console/internal/core/service"
	"github.com/sirpyerre/admin-console/internal/infrastructure/audit"
	"github.com/sirpyerre/admin-console/internal/infrastructure/db/memory"
	mongoslots "github.com/sirpyerre/admin-console/internal/infrastructure/db/mongo"
	redisslots "github.com/sirpyerre/admin-console/internal/infrastructure/db/redis"
	"github.com/sirpyerre/admin-console/internal/infrastructure/queue"
	"github.com/sirpyerre/admin-console/internal/infrastructure/store"
	"github.com/sirpyerre/admin-console/internal/infrastructure/token"
	"github.com/sirpyerre/admin-console/internal/pkg/config"
	"github.com/sirpyerre/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Admin Console API
// @version      1.0
// @description  Session, user management and audit endpoints of the admin console.
// @BasePath     /
func main() {
	cfg := config.Load()
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "admin-console",
	})
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("console stopped")
	}
}

// slotBackend is a slot store the readiness probe can ping.
type slotBackend interface {
	ports.SlotStore
	handler.Pinger
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	slots, closeSlots, err := openSlots(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSlots()
	log.Info().Str("backend", cfg.StorageBackend).Msg("slot store ready")

	var creds ports.CredentialStore = store.NewMemoryCredentials()
	if cfg.Auth.CredentialsDurable {
		creds = store.NewSlotCredentials(slots)
	} else {
		log.Warn().Msg("credentials are kept in memory, passwords of created users are lost on restart")
	}

	codec, err := newCodec(cfg.Auth, log)
	if err != nil {
		return err
	}

	// Audit pipeline: service -> sharded dispatcher -> recorder.
	recorder := audit.NewRecorder(cfg.Audit.Capacity, log)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, recorder, log)
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	svc := service.NewAuthService(
		store.NewUserStore(slots, nil),
		store.NewSessionStore(slots),
		creds,
		codec,
		log,
		service.Options{LoginDelay: cfg.Auth.LoginDelay, Audit: dispatcher},
	)
	if err := svc.Init(ctx); err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Auth:       svc,
		Audit:      recorder,
		Readiness:  map[string]handler.Pinger{cfg.StorageBackend: slots},
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
		Log:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openSlots(ctx context.Context, cfg *config.Config) (slotBackend, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		s, err := redisslots.Open(ctx, redisslots.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.BackendMongo:
		s, err := mongoslots.Open(ctx, mongoslots.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = s.Close(closeCtx)
		}, nil
	default:
		return memory.NewSlotStore(), func() {}, nil
	}
}

func newCodec(cfg config.AuthConfig, log zerolog.Logger) (ports.TokenCodec, error) {
	if cfg.TokenSecret == "" {
		log.Warn().Msg("TOKEN_SECRET is empty, session tokens use the unsigned mock format")
		return token.NewMockCodec(cfg.SessionTTL), nil
	}
	codec, err := token.NewSignedCodec(cfg.TokenSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	return codec, nil
}
