package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-share/config"
	"recipe-share/models"
	"recipe-share/repositories"
	"recipe-share/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, userID uint, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JWTSecret)
	require.NoError(t, err)
	return token
}

func newAuthRouter(t *testing.T) (*gin.Engine, *models.User, *models.User) {
	db := testutil.NewDB(t)
	users := repositories.NewUserRepository(db)

	member := &models.User{Username: "@member", Email: "member@example.com", FirstName: "M", LastName: "M", Password: "x"}
	mod := &models.User{Username: "@mod", Email: "mod@example.com", FirstName: "M", LastName: "M", Password: "x", Role: models.RoleModerator}
	require.NoError(t, db.Create(member).Error)
	require.NoError(t, db.Create(mod).Error)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/public", OptionalAuth(users), func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	protected := r.Group("/", AuthMiddleware(users))
	protected.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	protected.GET("/staff", RequireRole(models.RoleAdmin, models.RoleModerator), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r, member, mod
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r, member, _ := newAuthRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/me", signToken(t, member.ID, -time.Minute)).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/me", signToken(t, 9999, time.Hour)).Code)

	w := doRequest(r, http.MethodGet, "/me", signToken(t, member.ID, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "@member", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequireRole(t *testing.T) {
	r, member, mod := newAuthRouter(t)

	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/staff", signToken(t, member.ID, time.Hour)).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/staff", signToken(t, mod.ID, time.Hour)).Code)
}

func TestOptionalAuth(t *testing.T) {
	r, member, _ := newAuthRouter(t)

	assert.Equal(t, "anonymous", doRequest(r, http.MethodGet, "/public", "").Body.String())
	assert.Equal(t, "anonymous", doRequest(r, http.MethodGet, "/public", "garbage").Body.String())
	assert.Equal(t, "@member", doRequest(r, http.MethodGet, "/public", signToken(t, member.ID, time.Hour)).Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://a.example, https://b.example"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://b.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://b.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(NewRateLimiter(2)), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"), "budgets are per IP")
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1)
	rl.Allow("192.0.2.1")
	rl.Cleanup(time.Hour)
	assert.Len(t, rl.limiters, 1)
	rl.Cleanup(-time.Second)
	assert.Empty(t, rl.limiters)
}
