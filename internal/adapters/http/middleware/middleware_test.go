package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dailywage-hub/internal/config"
	"dailywage-hub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type errorBody struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, errorBody) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body errorBody
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	return resp.StatusCode, body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		mode        string
		err         error
		wantStatus  int
		wantMessage string
		wantFields  int
	}{
		{"not found", "dev", domain.NotFound("Job not found"), 404, "Job not found", 0},
		{"conflict", "prod", domain.Conflict("Username already exists"), 409, "Username already exists", 0},
		{"business rule", "dev", domain.JobStatusGuard(domain.JobOpen), 400, "Job must be in 'open' status", 0},
		{"external", "dev", domain.ExternalService("Payment gateway unavailable", errors.New("dial tcp")), 503, "Payment gateway unavailable", 0},
		{"validation fields", "dev", domain.Validation("Request validation failed",
			domain.FieldError{Field: "title", Message: "required"},
			domain.FieldError{Field: "wageUnit", Message: "invalid"}), 400, "Request validation failed", 2},
		{"fiber error", "dev", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), 405, "nope", 0},
		{"unknown dev", "dev", errors.New("db exploded"), 500, "db exploded", 0},
		{"unknown prod", "prod", errors.New("db exploded"), 500, "Internal Server Error", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{AppMode: tt.mode}
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(cfg, zap.NewNop())})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			status, body := send(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Len(t, body.Errors, tt.wantFields)
		})
	}
}

type fakeAuthenticator struct {
	tokens map[string]domain.Principal
	err    error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (domain.Principal, error) {
	if f.err != nil {
		return domain.Principal{}, f.err
	}
	p, ok := f.tokens[token]
	if !ok {
		return domain.Principal{}, domain.Unauthorized("Invalid session")
	}
	return p, nil
}

func newAuthApp(auth Authenticator, roles ...domain.Role) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(&config.Config{AppMode: "prod"}, zap.NewNop())})
	handlers := []fiber.Handler{AuthMiddleware(auth)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(string(p.Role))
	})
	app.Get("/", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	worker := domain.Principal{UserID: uuid.New(), Role: domain.RoleWorker, SessionID: uuid.New()}
	auth := &fakeAuthenticator{tokens: map[string]domain.Principal{"good": worker}}
	app := newAuthApp(auth)

	t.Run("missing token", func(t *testing.T) {
		status, body := send(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Authentication required", body.Message)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
		status, _ := send(t, app, req)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		status, _ := send(t, app, req)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		status, body := send(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid or expired session", body.Message)
	})

	t.Run("store failure is not a 401", func(t *testing.T) {
		broken := newAuthApp(&fakeAuthenticator{err: errors.New("connection refused")})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		status, body := send(t, broken, req)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Internal Server Error", body.Message)
	})
}

func TestRequireRoles(t *testing.T) {
	auth := &fakeAuthenticator{tokens: map[string]domain.Principal{
		"worker":   {UserID: uuid.New(), Role: domain.RoleWorker},
		"employer": {UserID: uuid.New(), Role: domain.RoleEmployer},
		"admin":    {UserID: uuid.New(), Role: domain.RoleAdmin},
	}}
	app := newAuthApp(auth, domain.RoleEmployer)

	tests := []struct {
		token string
		want  int
	}{
		{"worker", http.StatusForbidden},
		{"employer", http.StatusOK},
		{"admin", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			status, _ := send(t, app, req)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestRequireRoles_WithoutPrincipal(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireRoles(domain.RoleWorker), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	status, _ := send(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestNoCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/", NoCacheHeaders(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")
}
