package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/momna763/Target-Lock/internal/auth"
	"github.com/momna763/Target-Lock/internal/catalog"
	"github.com/momna763/Target-Lock/internal/chat"
	"github.com/momna763/Target-Lock/internal/http/ban"
	handler "github.com/momna763/Target-Lock/internal/http/handlers"
	rl "github.com/momna763/Target-Lock/internal/http/rate_limiter"
	"github.com/momna763/Target-Lock/internal/http/router"
	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

const (
	adminPassword = "secret-admin"
	userPassword  = "secret-user"
	jwtSecret     = "test-secret"
)

var errStoreDown = errors.New("connection refused")

type testEnv struct {
	router     http.Handler
	products   *repo.InMemoryProductRepository
	trends     *repo.InMemoryTrendRepository
	reports    *repo.InMemoryReportRepository
	users      *repo.InMemoryUserRepository
	adminToken string
	userToken  string
}

type envOptions struct {
	products     repo.ProductRepository
	demoFallback bool
	limiter      *rl.Limiter
	checks       []handler.Check
}

// brokenProducts fails every read the catalog service makes.
type brokenProducts struct {
	repo.ProductRepository
}

func (brokenProducts) GetAll(context.Context) ([]models.Product, error) {
	return nil, errStoreDown
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, envOptions{})
}

func newTestEnvWith(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	env := &testEnv{
		products: repo.NewInMemoryProductRepository(),
		trends:   repo.NewInMemoryTrendRepository(),
		reports:  repo.NewInMemoryReportRepository(),
		users:    repo.NewInMemoryUserRepository(),
	}
	var products repo.ProductRepository = env.products
	if opts.products != nil {
		products = opts.products
	}

	tokens := auth.NewTokenIssuer(jwtSecret, time.Hour)
	server := handler.NewServer(handler.Deps{
		Products: products,
		Trends:   env.trends,
		Reports:  env.reports,
		Users:    env.users,
		Catalog:  catalog.NewService(products, catalog.Options{DemoFallback: opts.demoFallback}, nil),
		Auth:     auth.NewService(env.users, tokens),
		Chat:     chat.NewAssistant(chat.NewMemoryHistory(chat.HistoryLimit), rand.New(rand.NewPCG(1, 2))),
		Checks:   opts.checks,
	})

	routerOpts := router.Options{CORSOrigin: "*"}
	if opts.limiter != nil {
		routerOpts.Limiter = opts.limiter
		routerOpts.Guard = ban.NewGuard(ban.NewMemoryStore(), 2, time.Minute, nil)
		routerOpts.BanDuration = time.Minute
	}
	env.router = router.NewRouter(server, routerOpts)

	env.addUser(t, "admin", adminPassword, models.RoleAdmin)
	env.addUser(t, "analyst", userPassword, models.RoleUser)
	env.adminToken = env.login(t, "admin", adminPassword)
	env.userToken = env.login(t, "analyst", userPassword)
	return env
}

func (e *testEnv) addUser(t *testing.T, username, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if _, err := e.users.CreateUser(context.Background(), models.User{Username: username, PasswordHash: string(hash), Role: role}); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/api/auth/login", "", handler.CredentialsRequest{Username: username, Password: password})
	expectStatus(t, w, http.StatusOK)

	resp := decode[handler.LoginResult](t, w)
	if resp.Token == "" {
		t.Fatalf("expected a token for %s", username)
	}
	return resp.Token
}

// do sends payload as JSON unless it is nil.
func (e *testEnv) do(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createProduct(t *testing.T, p handler.ProductRequest) models.Product {
	t.Helper()
	w := e.do(http.MethodPost, "/api/products", e.adminToken, p)
	if w.Code != http.StatusCreated {
		t.Fatalf("product creation failed: %d %s", w.Code, w.Body.String())
	}
	return decode[models.Product](t, w)
}

func (e *testEnv) upload(path, filename string, content []byte) *httptest.ResponseRecorder {
	body, contentType := multipartFile(filename, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+e.adminToken)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func multipartFile(filename string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	_, _ = part.Write(content)

	_ = writer.Close()
	return &buf, writer.FormDataContentType()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return v
}

// expectStatus stops the test when the response code is not want.
func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func product(name, category string, score int, trend float64, tags ...string) handler.ProductRequest {
	return handler.ProductRequest{
		Name:               name,
		Category:           category,
		ProfitabilityScore: &score,
		TrendPercentage:    trend,
		Price:              &handler.PriceRequest{Current: 19.99},
		Availability:       &handler.AvailabilityRequest{InStock: true, StockCount: 5},
		Tags:               tags,
	}
}

func productPath(id string) string {
	return fmt.Sprintf("/api/products/%s", id)
}
