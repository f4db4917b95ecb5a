package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rakshithjm97/ivms3/internal/access"
	"github.com/rakshithjm97/ivms3/internal/auth"
	"github.com/rakshithjm97/ivms3/internal/config"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	apihttp "github.com/rakshithjm97/ivms3/internal/http"
	"github.com/rakshithjm97/ivms3/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(jwt *auth.Manager) http.Handler {
	return apihttp.NewRouter(apihttp.Deps{
		Cfg: config.Config{
			Env:              "dev",
			ServiceName:      "ivms3-test",
			LoginRateLimit:   2,
			LoginRateWindow:  time.Minute,
			SubmitRateLimit:  2,
			SubmitRateWindow: time.Minute,
		},
		Prom:   observability.NewProm(prometheus.NewRegistry()),
		JWT:    jwt,
		Scoper: access.NewScoper(nil),
	})
}

func post(r http.Handler, path, token, body string) int {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.1.1.1:4000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimits_PasswordRoutesDoNotSpendLoginBudget(t *testing.T) {
	r := newTestRouter(auth.NewManager("router-secret", time.Hour, 24*time.Hour))

	for i := 0; i < 2; i++ {
		require.NotEqual(t, http.StatusTooManyRequests, post(r, "/api/reset-password", "", `{}`))
	}
	require.Equal(t, http.StatusTooManyRequests, post(r, "/api/reset-password", "", `{}`))
	require.Equal(t, http.StatusTooManyRequests, post(r, "/api/forgot-password", "", `{}`))

	assert.NotEqual(t, http.StatusTooManyRequests, post(r, "/api/login", "", `{}`))
}

func TestRateLimits_SubmitRoutesCountPerUser(t *testing.T) {
	jwt := auth.NewManager("router-secret", time.Hour, 24*time.Hour)
	r := newTestRouter(jwt)

	token := func(id string) string {
		raw, err := jwt.GenerateAccessToken(user.User{ID: id, Email: id + "@aidash.com", Role: user.RoleUser})
		require.NoError(t, err)
		return raw
	}
	first, second := token("u-1"), token("u-2")

	for i := 0; i < 2; i++ {
		require.NotEqual(t, http.StatusTooManyRequests, post(r, "/api/tracker", first, `{}`))
	}
	require.Equal(t, http.StatusTooManyRequests, post(r, "/api/daily-activity-new", first, `{}`))

	// same address, different user
	assert.NotEqual(t, http.StatusTooManyRequests, post(r, "/api/tracker", second, `{}`))
}
