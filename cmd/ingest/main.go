package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/momna763/Target-Lock/internal/config"
	"github.com/momna763/Target-Lock/internal/db"
	"github.com/momna763/Target-Lock/internal/ingest"
	"github.com/momna763/Target-Lock/internal/logger"
	"github.com/momna763/Target-Lock/internal/repo"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "print statistics without writing products")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed for estimated fields")
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

	raws, err := ingest.LoadScraped(ctx, database)
	if err != nil {
		log.Fatal("could not load scraped listings", zap.Error(err))
	}
	log.Info("loaded scraped listings", zap.Int("count", len(raws)), zap.String("collection", ingest.ScrapedCollection))
	if len(raws) == 0 {
		log.Warn("nothing to transform")
		return
	}

	products := ingest.NewEstimator(rand.New(rand.NewPCG(*seed, *seed>>1))).TransformAll(raws)

	stats := ingest.Summarize(products)
	log.Info("price tiers",
		zap.Int("total", stats.Total),
		zap.Int("budget", stats.Budget),
		zap.Int("midRange", stats.MidRange),
		zap.Int("premium", stats.Premium),
	)
	for _, b := range stats.TopBrands(5) {
		log.Info("brand", zap.String("name", b.Brand), zap.Int("products", b.Count))
	}

	if *dryRun {
		log.Info("dry run, no products written")
		return
	}

	store := repo.NewMongoProductRepository(database)
	if err := store.DeleteAll(ctx); err != nil {
		log.Fatal("could not clear products", zap.Error(err))
	}
	for _, p := range products {
		if _, err := store.Create(ctx, p); err != nil {
			log.Fatal("could not insert product", zap.String("name", p.Name), zap.Error(err))
		}
	}
	log.Info("products written", zap.Int("count", len(products)))
}
