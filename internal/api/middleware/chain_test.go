package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/quickbites/ordering-api/internal/core/domain"
)

// newProtectedServer wires Auth and RBAC the way the router does, with probes
// recording whether each stage ran.
func newProtectedServer(secret string, required domain.Role, gateRan, handlerRan *bool) *echo.Echo {
	e := echo.New()
	probe := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			*gateRan = true
			return next(c)
		}
	}
	e.GET("/protected", func(c echo.Context) error {
		*handlerRan = true
		return c.NoContent(http.StatusOK)
	}, Auth(secret), probe, RBAC(required))
	return e
}

func TestChain_ExpiredTokenStopsBeforeAuthorization(t *testing.T) {
	var gateRan, handlerRan bool
	e := newProtectedServer("secret", domain.RoleAdmin, &gateRan, &handlerRan)

	signed := signToken(t, "secret", jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"exp":  time.Now().Add(-time.Second).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if gateRan || handlerRan {
		t.Fatalf("request passed authentication: gate=%v handler=%v", gateRan, handlerRan)
	}
}

func TestChain_UserRoleForbiddenOnAdminRoute(t *testing.T) {
	var gateRan, handlerRan bool
	e := newProtectedServer("secret", domain.RoleAdmin, &gateRan, &handlerRan)

	signed := signToken(t, "secret", jwt.MapClaims{
		"sub":  "u1",
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !gateRan {
		t.Fatalf("authorization gate never ran")
	}
	if handlerRan {
		t.Fatalf("handler ran despite role mismatch")
	}
}

func TestChain_AdminTokenPasses(t *testing.T) {
	var gateRan, handlerRan bool
	e := newProtectedServer("secret", domain.RoleAdmin, &gateRan, &handlerRan)

	signed := signToken(t, "secret", jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !gateRan || !handlerRan {
		t.Fatalf("expected full chain to run: gate=%v handler=%v", gateRan, handlerRan)
	}
}
