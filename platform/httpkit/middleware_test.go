package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate_portal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtConfig struct{ secret string }

func (c jwtConfig) GetJWTAccessSecret() string { return c.secret }

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(middleware, func(c *gin.Context) {
		id := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": id.IsAuthenticated(), "role": id.Role()})
	})
	r.GET("/guarded", handlers...)
	return r
}

func TestAuthRequiredAcceptsRoleClaim(t *testing.T) {
	cfg := jwtConfig{secret: "secret"}
	userID := uuid.New()
	token := signToken(t, cfg.secret, jwt.MapClaims{
		"sub":  userID.String(),
		"role": RoleAgent,
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	r := newRouter(AuthRequired(cfg), RequireRole(RoleAgent, RoleAdmin))
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredRejectsUnknownRole(t *testing.T) {
	cfg := jwtConfig{secret: "secret"}
	token := signToken(t, cfg.secret, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": "superuser",
		"type": "access",
	})

	r := newRouter(AuthRequired(cfg))
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRoleForbidsClient(t *testing.T) {
	cfg := jwtConfig{secret: "secret"}
	token := signToken(t, cfg.secret, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": RoleClient,
		"type": "access",
	})

	r := newRouter(AuthRequired(cfg), RequireRole(RoleAgent, RoleAdmin))
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestOptionalAuthContinuesAnonymously(t *testing.T) {
	r := newRouter(OptionalAuth(jwtConfig{secret: "secret"}))
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"authenticated":false,"role":""}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestPerMinuteLimiterBlocksAfterBurst(t *testing.T) {
	limiter := NewPerMinuteLimiter(2, nil)
	r := newRouter(limiter.RateLimit())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestHandleErrorUsesKindAndCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	err := apperr.TerminalState("tour is already completed").WithOp("tours.SetStatus")
	HandleError(c, err)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"error":"tour is already completed","code":"terminal_state_violation"}` {
		t.Fatalf("unexpected body %s", body)
	}
}
