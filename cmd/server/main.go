// Command server runs the news management HTTP API.
//
// @title                       News Management API
// @version                     1.0
// @description                 Accounts, categories, tags and news articles with role-gated access.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	_ "github.com/newsroom/news-management/docs"
	"github.com/newsroom/news-management/internal/api"
	"github.com/newsroom/news-management/internal/api/handler"
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
	"github.com/newsroom/news-management/internal/core/service"
	"github.com/newsroom/news-management/internal/infrastructure/config"
	mongodb "github.com/newsroom/news-management/internal/infrastructure/db/mongo"
	"github.com/newsroom/news-management/internal/infrastructure/db/postgres"
	redisdb "github.com/newsroom/news-management/internal/infrastructure/db/redis"
	"github.com/newsroom/news-management/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "news-management",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// repositories is the storage-driver specific half of the wiring.
type repositories struct {
	accounts   ports.AccountRepository
	categories ports.CategoryRepository
	tags       ports.TagRepository
	articles   ports.ArticleRepository
	newsTags   ports.NewsTagRepository
	tx         ports.TxManager
	checks     map[string]handler.Check
	close      func(context.Context) error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing storage")
		}
	}()

	var idempotency ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		idempotency = redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		repos.checks["redis"] = redisdb.Ping(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else {
		log.Info().Msg("redis not configured, idempotency keys disabled")
	}

	labels := domain.NewRoleLabels(cfg.JWT.AdminRole)
	tokens := service.NewTokenManager(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Validity: cfg.JWT.Expiry(),
		Labels:   labels,
	})

	guard := service.NewIntegrityGuard(repos.articles)
	authSvc := service.NewAuthService(repos.accounts, tokens, logger.Component(log, "auth"))

	if cfg.Bootstrap.Enabled() {
		b := cfg.Bootstrap
		if err := authSvc.EnsureAdmin(ctx, b.AdminName, b.AdminEmail, b.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	e := api.NewRouter(api.Deps{
		Logger:         logger.Component(log, "http"),
		RequestTimeout: cfg.RequestTimeout,
		Labels:         labels,
		Verifier:       tokens,
		Auth:           authSvc,
		Accounts:       service.NewAccountService(repos.accounts, guard, logger.Component(log, "accounts")),
		Categories:     service.NewCategoryService(repos.categories, guard, logger.Component(log, "categories")),
		Tags:           service.NewTagService(repos.tags, repos.newsTags, repos.tx, logger.Component(log, "tags")),
		Articles: service.NewArticleService(service.ArticleDeps{
			Articles:    repos.articles,
			NewsTags:    repos.newsTags,
			Categories:  repos.categories,
			Tags:        repos.tags,
			Accounts:    repos.accounts,
			Tx:          repos.tx,
			Idempotency: idempotency,
		}, logger.Component(log, "articles")),
		Reports: service.NewReportService(repos.articles, logger.Component(log, "reports")),
		Checks:  repos.checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("starting server")
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
		return &repositories{
			accounts:   mongodb.NewAccountRepository(db),
			categories: mongodb.NewCategoryRepository(db),
			tags:       mongodb.NewTagRepository(db),
			articles:   mongodb.NewArticleRepository(db),
			newsTags:   mongodb.NewNewsTagRepository(db),
			tx:         mongodb.NewTxManager(client),
			checks: map[string]handler.Check{
				"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			},
			close: client.Disconnect,
		}, nil

	default:
		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, cfg.Postgres.URL); err != nil {
				return nil, err
			}
			log.Info().Msg("postgres migrations applied")
		}
		db, err := postgres.Connect(ctx, postgres.Config{
			URL:        cfg.Postgres.URL,
			LogQueries: !cfg.IsProduction(),
		}, logger.Component(log, "postgres"))
		if err != nil {
			return nil, err
		}
		log.Info().Msg("postgres connected")
		return &repositories{
			accounts:   postgres.NewAccountRepository(db),
			categories: postgres.NewCategoryRepository(db),
			tags:       postgres.NewTagRepository(db),
			articles:   postgres.NewArticleRepository(db),
			newsTags:   postgres.NewNewsTagRepository(db),
			tx:         postgres.NewTxManager(db),
			checks: map[string]handler.Check{
				"postgres": db.Ping,
			},
			close: func(context.Context) error { return db.Close() },
		}, nil
	}
}

