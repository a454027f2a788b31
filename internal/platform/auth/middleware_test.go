package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

func doAuthRequest(t *testing.T, mw echo.MiddlewareFunc, token string) (*httptest.ResponseRecorder, User, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got User
	var ok bool
	handler := mw(func(c echo.Context) error {
		got, ok = CurrentUser(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, got, ok
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	token, err := IssueToken(testSecret, User{ID: 42, Role: RoleNurse}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, user, ok := doAuthRequest(t, JWTMiddleware(testSecret), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ok {
		t.Fatal("expected user on context")
	}
	if user.ID != 42 || user.Role != RoleNurse {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	rec, _, _ := doAuthRequest(t, JWTMiddleware(testSecret), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	token, err := IssueToken([]byte("other-secret"), User{ID: 1, Role: RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, _, _ := doAuthRequest(t, JWTMiddleware(testSecret), token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token, err := IssueToken(testSecret, User{ID: 1, Role: RoleAdmin}, -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, _, _ := doAuthRequest(t, JWTMiddleware(testSecret), token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_UnknownRole(t *testing.T) {
	token, err := IssueToken(testSecret, User{ID: 1, Role: "superuser"}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, _, _ := doAuthRequest(t, JWTMiddleware(testSecret), token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestDevAuthMiddleware_Defaults(t *testing.T) {
	rec, user, ok := doAuthRequest(t, DevAuthMiddleware(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ok {
		t.Fatal("expected user on context")
	}
	if user.Role != RoleAdmin {
		t.Errorf("expected admin role, got %s", user.Role)
	}
}
