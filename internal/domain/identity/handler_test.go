package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spito/spito/internal/platform/apperror"
	"github.com/spito/spito/internal/platform/auth"
)

func newTestServer(t *testing.T, user auth.User) (*echo.Echo, *Service) {
	t.Helper()
	svc, _ := newTestService()

	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(zerolog.Nop())
	h := NewHandler(svc)
	h.RegisterPublicRoutes(e)

	api := e.Group("/api/v1")
	api.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(auth.WithUser(c.Request().Context(), user)))
			return next(c)
		}
	})
	h.RegisterRoutes(api)
	return e, svc
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateUserEndpoint(t *testing.T) {
	e, _ := newTestServer(t, auth.User{ID: 1, Role: auth.RoleAdmin})

	rec := doJSON(e, http.MethodPost, "/api/v1/users",
		`{"username":"anna","password":"long-enough-pw","role":"nurse","full_name":"Anna Keller"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("password hash must not appear in the response")
	}

	var u User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.ID == 0 || u.Username != "anna" {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestCreateUserEndpoint_NonAdminForbidden(t *testing.T) {
	e, _ := newTestServer(t, auth.User{ID: 2, Role: auth.RoleNurse})

	rec := doJSON(e, http.MethodPost, "/api/v1/users",
		`{"username":"x","password":"long-enough-pw","role":"nurse","full_name":"X"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	e, svc := newTestServer(t, auth.User{ID: 1, Role: auth.RoleAdmin})

	if _, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Username: "doc", Password: "correct-horse", Role: auth.RoleDoctor, FullName: "Doc",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"username":"doc","password":"correct-horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := auth.ParseToken([]byte("test-secret"), resp.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Role != auth.RoleDoctor {
		t.Errorf("expected doctor role in claims, got %q", claims.Role)
	}
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	e, svc := newTestServer(t, auth.User{ID: 1, Role: auth.RoleAdmin})

	if _, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Username: "doc", Password: "correct-horse", Role: auth.RoleDoctor, FullName: "Doc",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"username":"doc","password":"nope"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetUserEndpoint_NotFound(t *testing.T) {
	e, _ := newTestServer(t, auth.User{ID: 1, Role: auth.RoleDoctor})

	rec := doJSON(e, http.MethodGet, "/api/v1/users/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
