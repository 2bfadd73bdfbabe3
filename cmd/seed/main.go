package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/momna763/Target-Lock/internal/auth"
	"github.com/momna763/Target-Lock/internal/config"
	"github.com/momna763/Target-Lock/internal/db"
	"github.com/momna763/Target-Lock/internal/logger"
	"github.com/momna763/Target-Lock/internal/repo"
	"github.com/momna763/Target-Lock/internal/seed"
)

func main() {
	seedFlag := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed for the generated dataset")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load configuration", zap.Error(err))
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	client, database, err := db.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
	if err != nil {
		log.Fatal("could not connect to mongo", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	products := repo.NewMongoProductRepository(database)
	trends := repo.NewMongoTrendRepository(database)
	reports := repo.NewMongoReportRepository(database)

	var users repo.UserRepository = repo.NewInMemoryUserRepository()
	if cfg.Postgres.URL != "" {
		sqlDB, err := db.ConnectPostgres(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Fatal("could not connect to postgres", zap.Error(err))
		}
		defer sqlDB.Close()
		if err := db.Migrate(sqlDB); err != nil {
			log.Fatal("could not migrate postgres", zap.Error(err))
		}
		users = repo.NewPostgresUserRepository(sqlDB)
	} else {
		log.Warn("no database url configured, seeded accounts will not persist")
	}

	log.Info("starting database seeding", zap.Uint64("seed", *seedFlag))

	for name, wipe := range map[string]func(context.Context) error{
		"products": products.DeleteAll,
		"trends":   trends.DeleteAll,
		"reports":  reports.DeleteAll,
	} {
		if err := wipe(ctx); err != nil {
			log.Fatal("could not clear collection", zap.String("collection", name), zap.Error(err))
		}
	}
	log.Info("existing catalog data removed")

	gen := seed.NewGenerator(*seedFlag, time.Now())
	authSvc := auth.NewService(users, auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL))

	var userIDs []int
	for _, a := range gen.Accounts() {
		u, _, err := authSvc.Register(ctx, a.Username, a.Password, a.Role)
		if errors.Is(err, auth.ErrUserExists) {
			u, err = users.GetByUsername(ctx, a.Username)
		}
		if err != nil {
			log.Fatal("could not create user", zap.String("username", a.Username), zap.Error(err))
		}
		userIDs = append(userIDs, u.ID)
	}
	log.Info("users ready", zap.Int("count", len(userIDs)), zap.String("password", seed.DefaultPassword))

	var productIDs []string
	for _, p := range gen.Products() {
		created, err := products.Create(ctx, p)
		if err != nil {
			log.Fatal("could not insert product", zap.String("name", p.Name), zap.Error(err))
		}
		productIDs = append(productIDs, created.ID)
	}
	log.Info("inserted products", zap.Int("count", len(productIDs)))

	trendPoints := gen.Trends(productIDs)
	for _, t := range trendPoints {
		if _, err := trends.Create(ctx, t); err != nil {
			log.Fatal("could not insert trend", zap.Error(err))
		}
	}
	log.Info("inserted trends", zap.Int("count", len(trendPoints)))

	generated := gen.Reports(userIDs)
	for _, r := range generated {
		if _, err := reports.Create(ctx, r); err != nil {
			log.Fatal("could not insert report", zap.Error(err))
		}
	}
	log.Info("database seeded",
		zap.Int("users", len(userIDs)),
		zap.Int("products", len(productIDs)),
		zap.Int("trends", len(trendPoints)),
		zap.Int("reports", len(generated)),
	)
}
