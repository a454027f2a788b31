package careplan

import (
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
	svc := NewService(newMockRepo())

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

func TestCarePlanEndpoints(t *testing.T) {
	e, _ := newTestServer(t, auth.User{ID: 10, Role: auth.RoleDoctor})

	rec := doJSON(e, http.MethodPost, "/api/v1/care-plans",
		`{"patient_id":1,"title":"Diabetes management","description":"Daily glucose checks"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"active"`) {
		t.Errorf("new plan must be active: %s", rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, "/api/v1/care-plans/1/progress",
		`{"notes":"Stable glucose levels","metrics":{"glucose":5.8}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on progress, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/care-plans/1/progress", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Stable glucose levels") {
		t.Errorf("progress note missing: %s", rec.Body.String())
	}
}

func TestCarePlanEndpoints_NotFound(t *testing.T) {
	e, _ := newTestServer(t, auth.User{ID: 10, Role: auth.RoleNurse})

	rec := doJSON(e, http.MethodGet, "/api/v1/care-plans/9", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCarePlanEndpoints_PatientForbidden(t *testing.T) {
	e, _ := newTestServer(t, auth.User{ID: 77, Role: auth.RolePatient})

	rec := doJSON(e, http.MethodGet, "/api/v1/care-plans", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
