// Command server runs the commerce API.
//
// @title                       Commerce API
// @version                     1.0
// @description                 Customers, roles, catalog, orders, reviews and shipping addresses behind bearer-token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/storefront/commerce-api/internal/api"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/core/service"
	mongoaudit "github.com/storefront/commerce-api/internal/infrastructure/db/mongo"
	rediscache "github.com/storefront/commerce-api/internal/infrastructure/db/redis"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/migrations"
	"github.com/storefront/commerce-api/internal/infrastructure/queue"
	"github.com/storefront/commerce-api/internal/pkg/config"
	"github.com/storefront/commerce-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "commerce-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := relational.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Str("kind", string(relational.DetectKind(cfg.Database.URL))).Msg("database unavailable")
	}
	defer func() { _ = relational.Close(db) }()

	if err := migrations.Up(ctx, db, logger.Component("migrations")); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Lifetime: cfg.Auth.JWTExpiration,
		Issuer:   cfg.Auth.JWTIssuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		defer func() { _ = rdb.Close() }()
	} else {
		log.Warn().Msg("REDIS_ADDR not set, identity cache disabled")
	}

	var (
		auditDB    *mongo.Database
		publisher  ports.AuditPublisher
		dispatcher *queue.Dispatcher
	)
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if cfg.Mongo.URI != "" {
		client, database, err := mongoaudit.Connect(ctx, mongoaudit.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo unavailable")
		}
		defer func() { _ = mongoaudit.Disconnect(client, shutdownTimeout) }()

		repo := mongoaudit.NewAuditRepository(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}

		dispatcher = queue.NewDispatcher(cfg.Mongo.Workers, repo, logger.Component("audit"))
		dispatcher.Start(workersCtx)
		auditDB, publisher = database, dispatcher
	} else {
		log.Warn().Msg("MONGO_URI not set, authentication audit disabled")
	}

	e := api.NewRouter(api.RouterConfig{
		DB:         db,
		Redis:      rdb,
		Mongo:      auditDB,
		Audit:      publisher,
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
		CacheTTL:   cfg.Redis.CacheTTL,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// In-flight requests are done, so the queues only shrink from here.
	stopWorkers()
	if dispatcher != nil {
		dispatcher.Wait()
	}
	log.Info().Msg("stopped")
}
