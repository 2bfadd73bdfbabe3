package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/momna763/Target-Lock/docs"
	"github.com/momna763/Target-Lock/internal/http/ban"
	"github.com/momna763/Target-Lock/internal/http/handlers"
	mw "github.com/momna763/Target-Lock/internal/http/middleware"
	rl "github.com/momna763/Target-Lock/internal/http/rate_limiter"
)

// Options configures the middleware chain around the API.
// A nil Limiter disables rate limiting.
type Options struct {
	Logger      *zap.Logger
	CORSOrigin  string
	Limiter     *rl.Limiter
	Guard       *ban.Guard
	BanDuration time.Duration
}

func NewRouter(s *handlers.Server, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(mw.RequestID)
	r.Use(mw.AccessLog(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(mw.CORS(opts.CORSOrigin))
	if opts.Limiter != nil && opts.Guard != nil {
		r.Use(mw.RateLimit(opts.Limiter, opts.Guard, opts.BanDuration))
	}

	r.Get("/health", s.Health)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(s.Tokens()))

			r.Get("/auth/me", s.Me)

			r.Get("/products", s.GetProducts)
			r.Get("/products/trending", s.GetTrendingProducts)
			r.Get("/products/categories", s.GetCategories)
			r.Get("/products/{id}", s.GetProductByID)

			r.Get("/metrics", s.GetMetrics)
			r.Get("/recommendations", s.GetRecommendations)

			r.Get("/trends", s.GetTrends)
			r.Get("/trends/{productId}", s.GetTrends)

			r.Get("/reports", s.GetReports)
			r.Post("/reports", s.CreateReport)
			r.Get("/reports/export", s.ExportProducts)

			r.Post("/chat", s.PostChat)
			r.Get("/chat/history", s.GetChatHistory)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)

				r.Post("/products", s.CreateProduct)
				r.Post("/products/import", s.ImportProducts)
				r.Put("/products/{id}", s.UpdateProduct)
				r.Delete("/products/{id}", s.DeleteProduct)
				r.Post("/trends", s.CreateTrend)
				r.Get("/users", s.ListUsers)
			})
		})
	})

	return r
}
