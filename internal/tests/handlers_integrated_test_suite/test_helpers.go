package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/momna763/Target-Lock/internal/auth"
	"github.com/momna763/Target-Lock/internal/catalog"
	"github.com/momna763/Target-Lock/internal/chat"
	"github.com/momna763/Target-Lock/internal/db"
	handler "github.com/momna763/Target-Lock/internal/http/handlers"
	"github.com/momna763/Target-Lock/internal/http/router"
	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

const adminPassword = "secret-admin"

type integratedEnv struct {
	router   http.Handler
	products *repo.MongoProductRepository
	trends   *repo.MongoTrendRepository
	reports  *repo.MongoReportRepository
	users    *repo.PostgresUserRepository
	token    string
}

// newIntegratedEnv connects to the databases named by MONGO_TEST_URI and
// DATABASE_URL and skips the test when either is unset.
func newIntegratedEnv(t *testing.T) *integratedEnv {
	t.Helper()
	mongoURI, dbURL := os.Getenv("MONGO_TEST_URI"), os.Getenv("DATABASE_URL")
	if mongoURI == "" || dbURL == "" {
		t.Skip("MONGO_TEST_URI and DATABASE_URL must be set for integrated tests")
	}
	ctx := context.Background()

	client, database, err := db.ConnectMongo(ctx, mongoURI, "targetlock_test", 5*time.Second)
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	sqlDB, err := db.ConnectPostgres(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(sqlDB); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	env := &integratedEnv{
		products: repo.NewMongoProductRepository(database),
		trends:   repo.NewMongoTrendRepository(database),
		reports:  repo.NewMongoReportRepository(database),
		users:    repo.NewPostgresUserRepository(sqlDB),
	}
	if err := env.products.EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to create product indexes: %v", err)
	}
	if err := env.trends.EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to create trend indexes: %v", err)
	}
	clearCatalog(t, env)
	t.Cleanup(func() { clearCatalog(t, env) })

	createAdminIfNotExists(t, env.users, sqlDB)

	tokens := auth.NewTokenIssuer("integration-secret", time.Hour)
	server := handler.NewServer(handler.Deps{
		Products: env.products,
		Trends:   env.trends,
		Reports:  env.reports,
		Users:    env.users,
		Catalog:  catalog.NewService(env.products, catalog.Options{}, nil),
		Auth:     auth.NewService(env.users, tokens),
		Chat:     chat.NewAssistant(chat.NewMemoryHistory(chat.HistoryLimit), nil),
		Checks: []handler.Check{
			{Name: "mongo", Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) }},
			{Name: "postgres", Ping: sqlDB.PingContext},
		},
	})
	env.router = router.NewRouter(server, router.Options{CORSOrigin: "*"})
	env.token = env.login(t, "admin", adminPassword)
	return env
}

func clearCatalog(t *testing.T, env *integratedEnv) {
	t.Helper()
	ctx := context.Background()
	for _, deleteAll := range []func(context.Context) error{env.products.DeleteAll, env.trends.DeleteAll, env.reports.DeleteAll} {
		if err := deleteAll(ctx); err != nil {
			t.Fatalf("failed to clear catalog: %v", err)
		}
	}
}

func createAdminIfNotExists(t *testing.T, users *repo.PostgresUserRepository, sqlDB *sql.DB) {
	t.Helper()
	t.Cleanup(func() {
		_, _ = sqlDB.ExecContext(context.Background(), "DELETE FROM users WHERE username <> 'admin'")
	})

	ctx := context.Background()
	_, err := users.GetByUsername(ctx, "admin")
	if err == nil {
		return
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		t.Fatalf("failed to look up admin: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if _, err := users.CreateUser(ctx, models.User{Username: "admin", PasswordHash: string(hash), Role: models.RoleAdmin}); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
}

func (e *integratedEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/api/auth/login", "", handler.CredentialsRequest{Username: username, Password: password})
	expectStatus(t, w, http.StatusOK)
	return decode[handler.LoginResult](t, w).Token
}

func (e *integratedEnv) do(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
