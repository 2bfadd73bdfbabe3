package repo

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/momna763/Target-Lock/internal/models"
)

var ErrTrendNotFound = errors.New("trend not found")

// TrendRepository stores metric observations per product.
// ListByProduct returns observations oldest first; metric "" matches all.
type TrendRepository interface {
	Create(ctx context.Context, t models.Trend) (models.Trend, error)
	ListByProduct(ctx context.Context, productID, metric string) ([]models.Trend, error)
	Latest(ctx context.Context, productID, metric string) (models.Trend, error)
	DeleteAll(ctx context.Context) error
}

type InMemoryTrendRepository struct {
	mu     sync.RWMutex
	trends []models.Trend
}

func NewInMemoryTrendRepository() *InMemoryTrendRepository {
	return &InMemoryTrendRepository{trends: []models.Trend{}}
}

func (r *InMemoryTrendRepository) Create(_ context.Context, t models.Trend) (models.Trend, error) {
	if !primitive.IsValidObjectID(t.ProductID) {
		return models.Trend{}, ErrInvalidID
	}
	t.ID = primitive.NewObjectID().Hex()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.trends = append(r.trends, t)
	r.mu.Unlock()
	return t, nil
}

func (r *InMemoryTrendRepository) ListByProduct(_ context.Context, productID, metric string) ([]models.Trend, error) {
	if !primitive.IsValidObjectID(productID) {
		return nil, ErrInvalidID
	}
	r.mu.RLock()
	out := []models.Trend{}
	for _, t := range r.trends {
		if t.ProductID == productID && (metric == "" || t.Metric == metric) {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Trend) int {
		return cmp.Compare(a.Date.UnixNano(), b.Date.UnixNano())
	})
	return out, nil
}

func (r *InMemoryTrendRepository) Latest(ctx context.Context, productID, metric string) (models.Trend, error) {
	trends, err := r.ListByProduct(ctx, productID, metric)
	if err != nil {
		return models.Trend{}, err
	}
	if len(trends) == 0 {
		return models.Trend{}, ErrTrendNotFound
	}
	return trends[len(trends)-1], nil
}

func (r *InMemoryTrendRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	r.trends = []models.Trend{}
	r.mu.Unlock()
	return nil
}
