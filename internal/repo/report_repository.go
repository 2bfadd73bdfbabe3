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

var ErrReportNotFound = errors.New("report not found")

// ReportRepository keeps report metadata. List returns the reports a user
// owns plus every public one, newest first.
type ReportRepository interface {
	Create(ctx context.Context, r models.Report) (models.Report, error)
	List(ctx context.Context, userID int) ([]models.Report, error)
	DeleteAll(ctx context.Context) error
}

type InMemoryReportRepository struct {
	mu      sync.RWMutex
	reports []models.Report
}

func NewInMemoryReportRepository() *InMemoryReportRepository {
	return &InMemoryReportRepository{reports: []models.Report{}}
}

func (r *InMemoryReportRepository) Create(_ context.Context, rep models.Report) (models.Report, error) {
	rep.ID = primitive.NewObjectID().Hex()
	if rep.GeneratedAt.IsZero() {
		rep.GeneratedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
	return rep, nil
}

func (r *InMemoryReportRepository) List(_ context.Context, userID int) ([]models.Report, error) {
	r.mu.RLock()
	out := []models.Report{}
	for _, rep := range r.reports {
		if rep.UserID == userID || rep.IsPublic {
			out = append(out, rep)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Report) int {
		return cmp.Compare(b.GeneratedAt.UnixNano(), a.GeneratedAt.UnixNano())
	})
	return out, nil
}

func (r *InMemoryReportRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	r.reports = []models.Report{}
	r.mu.Unlock()
	return nil
}
