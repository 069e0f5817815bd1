package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/moovefit/session-gateway/internal/api"
	"github.com/moovefit/session-gateway/internal/core/ports"
	"github.com/moovefit/session-gateway/internal/core/routes"
	"github.com/moovefit/session-gateway/internal/core/service"
	"github.com/moovefit/session-gateway/internal/infrastructure/config"
	"github.com/moovefit/session-gateway/internal/infrastructure/db/mongo"
	"github.com/moovefit/session-gateway/internal/infrastructure/db/redis"
	"github.com/moovefit/session-gateway/internal/infrastructure/memory"
	"github.com/moovefit/session-gateway/internal/infrastructure/profile"
	"github.com/moovefit/session-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Credential store: durable backend when reachable, otherwise degrade to
	// per-load in-memory sessions rather than refusing to start.
	var (
		store ports.CredentialStore
		rdb   *goredis.Client
		mdb   *gomongo.Database
	)
	switch cfg.Store.Backend {
	case "mongo":
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Warn().Err(err).Msg("mongo unavailable, sessions will not survive restarts")
			store = memory.NewCredentialStore()
		} else {
			defer client.Disconnect(context.Background())
			mdb = db
			store = mongo.NewCredentialStore(db, log)
		}
	case "memory":
		store = memory.NewCredentialStore()
	default:
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, sessions will not survive restarts")
			store = memory.NewCredentialStore()
		} else {
			defer client.Close()
			rdb = client
			store = redis.NewCredentialStore(client, log)
		}
	}

	table := routes.ByName(cfg.App)
	log.Info().Str("app", table.App).Str("backend", cfg.Store.Backend).Msg("session gateway starting")

	toasts := service.NewToastService(cfg.Toast.TTL, log)
	toasts.Start(ctx)

	deps := api.Deps{
		Sessions:      service.NewSessionManager(store, log),
		Store:         store,
		Profile:       profile.NewClient(cfg.Profile.BaseURL, cfg.Profile.Timeout, log),
		Notifier:      toasts,
		Guard:         service.NewGuard(table),
		Redis:         rdb,
		Mongo:         mdb,
		ContextSecret: cfg.ContextSecret,
		Upstream:      cfg.Upstream,
		Log:           log,
	}

	e, err := api.NewRouter(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("session gateway stopped")
}
