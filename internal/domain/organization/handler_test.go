package organization

import (
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
	svc := NewService(newMockOrgRepo(), &mockEmployeeLister{})

	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(zerolog.Nop())
	api := e.Group("/api/v1")
	api.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(auth.WithUser(c.Request().Context(), user)))
			return next(c)
		}
	})
	NewHandler(svc).RegisterRoutes(api)
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

func TestOrganizationLifecycle(t *testing.T) {
	e, _ := newTestServer(t, auth.User{ID: 1, Role: auth.RoleAdmin})

	rec := doJSON(e, http.MethodPost, "/api/v1/organizations",
		`{"name":"Spitex Bern","type":"spitex","city":"Bern","active":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var org Organization
	if err := json.Unmarshal(rec.Body.Bytes(), &org); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(e, http.MethodPut, "/api/v1/organizations/1",
		`{"name":"Spitex Bern West","type":"spitex","city":"Bern","active":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/organizations/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on get, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Spitex Bern West") {
		t.Errorf("update not reflected: %s", rec.Body.String())
	}
}

func TestUpdateOrganization_NonAdminForbidden(t *testing.T) {
	e, _ := newTestServer(t, auth.User{ID: 2, Role: auth.RoleNurse})

	rec := doJSON(e, http.MethodPut, "/api/v1/organizations/1",
		`{"name":"X","type":"spitex"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGetOrganization_NotFound(t *testing.T) {
	e, _ := newTestServer(t, auth.User{ID: 1, Role: auth.RoleNurse})

	rec := doJSON(e, http.MethodGet, "/api/v1/organizations/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
