package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/sepeiunido/plataforma/internal/adapters/handler/http"
	"github.com/sepeiunido/plataforma/internal/adapters/notifier"
	repo "github.com/sepeiunido/plataforma/internal/adapters/repository/postgres"
	"github.com/sepeiunido/plataforma/internal/core/services"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	pollRepo := repo.NewPollRepository(db)
	ballotRepo := repo.NewBallotRepository(db)
	memberRepo := repo.NewMemberRepository(db)
	sessionRepo := repo.NewSessionRepository(db)

	authSvc := services.NewAuthService(memberRepo, sessionRepo)
	pollSvc := services.NewPollService(pollRepo, ballotRepo, notifier.NewLogNotifier(slog.Default()))
	voteSvc := services.NewVoteService(pollRepo, ballotRepo)
	memberSvc := services.NewMemberService(memberRepo)

	router := handler.NewHandler(
		authSvc,
		handler.NewAuthHandler(authSvc),
		handler.NewPollHandler(pollSvc),
		handler.NewVoteHandler(voteSvc),
		handler.NewMemberHandler(memberSvc),
		[]string{"*"},
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

type memberFixture struct {
	ID    uuid.UUID
	DNI   string
	Email string
	Token string
}

// registerMember goes through the real registration and login endpoints,
// then flips the requested flags directly in the store, simulating the
// admin's out-of-band actions.
func (app *TestApp) registerMember(t *testing.T, verified, authorized, admin bool) memberFixture {
	t.Helper()

	suffix := uuid.NewString()[:8]
	dni := strings.ToUpper(suffix) + "Z"
	email := fmt.Sprintf("member-%s@example.com", suffix)
	password := "s3cret-" + suffix

	payload := map[string]string{
		"dni":      dni,
		"email":    email,
		"name":     "Member " + suffix,
		"password": password,
	}
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	resp := app.postJSON(t, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &created)

	_, err := app.DB.Exec(
		"UPDATE usuarios SET verificado = $2, autorizado_votar = $3, es_admin = $4 WHERE id = $1",
		created.ID, verified, authorized, admin,
	)
	require.NoError(t, err)

	var login struct {
		Token string `json:"token"`
	}
	resp = app.postJSON(t, "/api/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &login)

	return memberFixture{ID: created.ID, DNI: dni, Email: email, Token: login.Token}
}

func (app *TestApp) postJSON(t *testing.T, path string, payload any, token string) *http.Response {
	t.Helper()
	return app.doJSON(t, http.MethodPost, path, payload, token)
}

func (app *TestApp) doJSON(t *testing.T, method, path string, payload any, token string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func (app *TestApp) getJSON(t *testing.T, path, token string) *http.Response {
	t.Helper()
	return app.doJSON(t, http.MethodGet, path, nil, token)
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
