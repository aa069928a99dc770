package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig(t *testing.T) AuthConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return AuthConfig{
		AdminEmail:        "admin@example.com",
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		SessionTTL:        time.Hour,
	}
}

func authRouter(t *testing.T) (*gin.Engine, AuthConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a := newTestApp(&memStore{})
	a.Auth = testAuthConfig(t)

	router := gin.New()
	router.POST("/api/auth/login", a.LoginHandler)
	admin := router.Group("/api/admin", AdminAuthMiddleware(a.Auth))
	admin.GET("/bookings", a.ListBookingsHandler)
	return router, a.Auth
}

func doLogin(t *testing.T, router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_WrongCredentialsRejected(t *testing.T) {
	router, _ := authRouter(t)

	if w := doLogin(t, router, "admin@example.com", "wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", w.Code)
	}
	if w := doLogin(t, router, "someone@example.com", "correct horse"); w.Code != http.StatusUnauthorized {
		t.Fatalf("non-admin email: expected 401, got %d", w.Code)
	}
}

func TestLogin_IssuesWorkingToken(t *testing.T) {
	router, _ := authRouter(t)

	w := doLogin(t, router, "admin@example.com", "correct horse")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("expected a token, got %s", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
}

func TestAdminMiddleware_DeniesBadTokens(t *testing.T) {
	router, auth := authRouter(t)

	// no token
	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", w.Code)
	}

	// garbage token
	req = httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", w.Code)
	}

	// valid signature, wrong subject
	claims := jwt.RegisteredClaims{
		Subject:   "intruder@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(auth.JWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong subject: expected 403, got %d", w.Code)
	}
}
