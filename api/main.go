package main

import (
	"context"
	"database/sql"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/momna763/Target-Lock/internal/auth"
	"github.com/momna763/Target-Lock/internal/catalog"
	"github.com/momna763/Target-Lock/internal/chat"
	"github.com/momna763/Target-Lock/internal/config"
	"github.com/momna763/Target-Lock/internal/db"
	"github.com/momna763/Target-Lock/internal/http/ban"
	"github.com/momna763/Target-Lock/internal/http/handlers"
	rl "github.com/momna763/Target-Lock/internal/http/rate_limiter"
	"github.com/momna763/Target-Lock/internal/http/router"
	"github.com/momna763/Target-Lock/internal/logger"
	"github.com/momna763/Target-Lock/internal/redissvc"
	"github.com/momna763/Target-Lock/internal/repo"
)

type catalogRepos struct {
	products repo.ProductRepository
	trends   repo.TrendRepository
	reports  repo.ReportRepository
}

// @title Target Lock API
// @version 1.0
// @description Product research API: catalog search, profitability metrics, recommendations, trends, exports and a scripted assistant.
// @host localhost:5001
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load configuration", zap.Error(err))
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []handlers.Check

	repos, mongoClient, err := openCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatal("could not open catalog storage", zap.Error(err))
	}
	if mongoClient != nil {
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		checks = append(checks, handlers.Check{Name: "mongo", Ping: func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		}})
	}

	users, sqlDB, err := openUsers(ctx, cfg, log)
	if err != nil {
		log.Fatal("could not open user storage", zap.Error(err))
	}
	if sqlDB != nil {
		defer sqlDB.Close()
		checks = append(checks, handlers.Check{Name: "postgres", Ping: sqlDB.PingContext})
	}

	var (
		banStore ban.Store    = ban.NewMemoryStore()
		history  chat.History = chat.NewMemoryHistory(chat.HistoryLimit)
		redisSvc *redissvc.RedisService
	)
	if cfg.Redis.Enabled {
		redisSvc, err = redissvc.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, keeping bans and chat history in memory", zap.Error(err))
		} else {
			defer redisSvc.Close()
			banStore = ban.NewRedisStore(redisSvc.Rdb())
			history = chat.NewRedisHistory(redisSvc.Rdb(), chat.HistoryLimit)
			checks = append(checks, handlers.Check{Name: "redis", Ping: redisSvc.Ping})
		}
	}

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	catalogSvc := catalog.NewService(repos.products, catalog.Options{
		TrendingThreshold: &cfg.Insights.TrendingThreshold,
		DemoFallback:      cfg.Catalog.DemoFallback,
	}, log)
	seed := uint64(time.Now().UnixNano())
	assistant := chat.NewAssistant(history, rand.New(rand.NewPCG(seed, seed>>1)))

	server := handlers.NewServer(handlers.Deps{
		Products:            repos.products,
		Trends:              repos.trends,
		Reports:             repos.reports,
		Users:               users,
		Catalog:             catalogSvc,
		Auth:                auth.NewService(users, tokens),
		Chat:                assistant,
		Checks:              checks,
		RecommendationLimit: cfg.Insights.RecommendationLimit,
		Logger:              log,
	})

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.StartCleanupLoop(ctx, time.Minute, 3*time.Minute)

	guard := ban.NewGuard(banStore, cfg.RateLimit.MaxStrikes, cfg.RateLimit.BanDuration, log)
	go guard.StartDailySummary(ctx)

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: router.NewRouter(server, router.Options{
			Logger:      log,
			CORSOrigin:  cfg.HTTP.CORSOrigin,
			Limiter:     limiter,
			Guard:       guard,
			BanDuration: cfg.RateLimit.BanDuration,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("demoFallback", cfg.Catalog.DemoFallback),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openCatalog returns the product, trend and report stores for the
// configured driver. The client is nil for the memory driver.
func openCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogRepos, *mongo.Client, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Info("using in-memory catalog storage")
		return catalogRepos{
			products: repo.NewInMemoryProductRepository(),
			trends:   repo.NewInMemoryTrendRepository(),
			reports:  repo.NewInMemoryReportRepository(),
		}, nil, nil
	}

	client, database, err := db.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
	if err != nil {
		return catalogRepos{}, nil, err
	}
	log.Info("connected to mongo", zap.String("database", cfg.Mongo.Database))

	products := repo.NewMongoProductRepository(database)
	trends := repo.NewMongoTrendRepository(database)
	if err := products.EnsureIndexes(ctx); err != nil {
		log.Warn("could not create product indexes", zap.Error(err))
	}
	if err := trends.EnsureIndexes(ctx); err != nil {
		log.Warn("could not create trend indexes", zap.Error(err))
	}
	return catalogRepos{
		products: products,
		trends:   trends,
		reports:  repo.NewMongoReportRepository(database),
	}, client, nil
}

// openUsers uses Postgres when a database URL is configured and keeps
// accounts in memory otherwise.
func openUsers(ctx context.Context, cfg *config.Config, log *zap.Logger) (repo.UserRepository, *sql.DB, error) {
	if cfg.Postgres.URL == "" {
		log.Warn("no database url configured, user accounts are kept in memory")
		return repo.NewInMemoryUserRepository(), nil, nil
	}

	sqlDB, err := db.ConnectPostgres(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Postgres.Migrate {
		if err := db.Migrate(sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
	}
	return repo.NewPostgresUserRepository(sqlDB), sqlDB, nil
}
