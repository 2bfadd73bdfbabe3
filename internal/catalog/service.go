// Package catalog reads product snapshots from the store and feeds them to
// the insights core.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/momna763/Target-Lock/internal/insights"
	"github.com/momna763/Target-Lock/internal/logger"
	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

var ErrStoreUnavailable = errors.New("product store unavailable")

// Source tells where a snapshot came from.
type Source string

const (
	SourceStore Source = "store"
	SourceDemo  Source = "demo"
)

type Options struct {
	// TrendingThreshold overrides insights.DefaultTrendingThreshold when set.
	TrendingThreshold *float64
	// DemoFallback serves DemoProducts when the store cannot be read.
	DemoFallback bool
}

type Service struct {
	products     repo.ProductRepository
	aggregator   insights.Aggregator
	demoFallback bool
	log          *zap.Logger
}

func NewService(products repo.ProductRepository, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	aggregator := insights.Aggregator{}
	if opts.TrendingThreshold != nil {
		aggregator = insights.NewAggregator(*opts.TrendingThreshold)
	}
	return &Service{
		products:     products,
		aggregator:   aggregator,
		demoFallback: opts.DemoFallback,
		log:          log,
	}
}

// Snapshot returns every stored product. A store failure is returned as
// ErrStoreUnavailable unless demo fallback is on.
func (s *Service) Snapshot(ctx context.Context) ([]models.Product, Source, error) {
	products, err := s.products.GetAll(ctx)
	if err == nil {
		if products == nil {
			products = []models.Product{}
		}
		return products, SourceStore, nil
	}

	if !s.demoFallback {
		return nil, "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	logger.WithRequestID(ctx, s.log).Warn("product store unavailable, serving demo catalog", zap.Error(err))
	return DemoProducts(), SourceDemo, nil
}

func (s *Service) Metrics(ctx context.Context) (insights.MetricsSnapshot, Source, error) {
	products, src, err := s.Snapshot(ctx)
	if err != nil {
		return insights.MetricsSnapshot{}, "", err
	}
	m, err := s.aggregator.Aggregate(products)
	if err != nil {
		return insights.MetricsSnapshot{}, "", err
	}
	return m, src, nil
}

func (s *Service) Recommendations(ctx context.Context, n int) ([]insights.ScoredProduct, Source, error) {
	products, src, err := s.Snapshot(ctx)
	if err != nil {
		return nil, "", err
	}
	scored, err := insights.Recommend(products, n)
	if err != nil {
		return nil, "", err
	}
	return scored, src, nil
}
