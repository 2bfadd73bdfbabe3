package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/momna763/Target-Lock/internal/auth"
	"github.com/momna763/Target-Lock/internal/catalog"
	"github.com/momna763/Target-Lock/internal/chat"
	"github.com/momna763/Target-Lock/internal/insights"
	"github.com/momna763/Target-Lock/internal/repo"
)

// Check is a named dependency probe reported by /health.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Deps are the collaborators a Server is built from.
type Deps struct {
	Products            repo.ProductRepository
	Trends              repo.TrendRepository
	Reports             repo.ReportRepository
	Users               repo.UserRepository
	Catalog             *catalog.Service
	Auth                *auth.Service
	Chat                *chat.Assistant
	Checks              []Check
	RecommendationLimit int
	Logger              *zap.Logger
}

// Server carries every dependency the HTTP handlers need. Handlers are
// its methods.
type Server struct {
	products            repo.ProductRepository
	trends              repo.TrendRepository
	reports             repo.ReportRepository
	users               repo.UserRepository
	catalog             *catalog.Service
	auth                *auth.Service
	chat                *chat.Assistant
	checks              []Check
	recommendationLimit int
	log                 *zap.Logger
	now                 func() time.Time
}

func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.RecommendationLimit <= 0 {
		d.RecommendationLimit = insights.DefaultRecommendationLimit
	}
	return &Server{
		products:            d.Products,
		trends:              d.Trends,
		reports:             d.Reports,
		users:               d.Users,
		catalog:             d.Catalog,
		auth:                d.Auth,
		chat:                d.Chat,
		checks:              d.Checks,
		recommendationLimit: d.RecommendationLimit,
		log:                 d.Logger,
		now:                 time.Now,
	}
}

func (s *Server) Tokens() *auth.TokenIssuer {
	return s.auth.Tokens()
}
