package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/access"
	"github.com/rakshithjm97/ivms3/internal/auth"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var b errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b), w.Body.String())
	return b
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthAndRole(t *testing.T) {
	jwt := auth.NewManager("mw-secret", time.Hour, 24*time.Hour)
	am := NewAuthMiddleware(jwt)

	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		p, _ := PrincipalFromContext(c)
		c.JSON(http.StatusOK, p)
	})
	r.GET("/admin", am.RequireAuth(), am.RequireRole(user.RoleAdmin, user.RoleInternalAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/no-auth", am.RequireRole(user.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := func(role user.Role) string {
		raw, err := jwt.GenerateAccessToken(user.User{ID: "u-1", Email: "lead@aidash.com", Role: role})
		require.NoError(t, err)
		return raw
	}
	get := func(path, authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		return serve(r, req)
	}

	t.Run("missing header", func(t *testing.T) {
		w := get("/me", "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "error", decodeError(t, w).Status)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := get("/me", "Basic abc")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := get("/me", "Bearer not-a-jwt")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid or expired access token", decodeError(t, w).Message)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		raw, _, _, err := jwt.GenerateRefreshToken(user.User{ID: "u-1", Email: "lead@aidash.com", Role: user.RoleAdmin})
		require.NoError(t, err)
		w := get("/me", "Bearer "+raw)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("principal comes from claims", func(t *testing.T) {
		w := get("/me", "bearer "+token(user.RoleTeamLead))
		require.Equal(t, http.StatusOK, w.Code)

		var p access.Principal
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, "u-1", p.ID)
		assert.Equal(t, "lead@aidash.com", p.Email)
		assert.Equal(t, user.RoleTeamLead, p.Role)
	})

	t.Run("role gate", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get("/admin", "Bearer "+token(user.RoleManager)).Code)
		assert.Equal(t, http.StatusOK, get("/admin", "Bearer "+token(user.RoleInternalAdmin)).Code)
	})

	t.Run("role gate without identity", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("/no-auth", "").Code)
	})
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/login", rl.Middleware(KeyByIP), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":5555"
		return serve(r, req)
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)

	w := hit("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, hit("10.0.0.2").Code)

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	assert.Len(t, rl.clients, 1)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := serve(r, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireJSON(t *testing.T) {
	r := gin.New()
	r.Use(RequireJSON())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnsupportedMediaType, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("a", 200))
	w = serve(r, req)
	assert.Len(t, w.Body.String(), 36)
}
