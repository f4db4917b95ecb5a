package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/http/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadyz(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		deps       map[string]handlers.Pinger
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "all up",
			deps:       map[string]handlers.Pinger{"db": up, "redis": up},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"db": "up", "redis": "up"},
		},
		{
			name:       "redis down",
			deps:       map[string]handlers.Pinger{"db": up, "redis": down},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"db": "up", "redis": "down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/readyz", handlers.NewHealthHandler(tt.deps).Readyz)

			w := doRequest(r, http.MethodGet, "/readyz", "", "")
			require.Equal(t, tt.wantStatus, w.Code)

			var body struct {
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}

func TestHealthStatus(t *testing.T) {
	r := gin.New()
	r.GET("/api/health", handlers.NewHealthHandler(nil).Status)

	w := doRequest(r, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "connected", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

type uiOptionsFunc func(ctx context.Context) (json.RawMessage, error)

func (f uiOptionsFunc) UIOptions(ctx context.Context) (json.RawMessage, error) { return f(ctx) }

func TestUIOptions(t *testing.T) {
	t.Run("etag round trip", func(t *testing.T) {
		src := uiOptionsFunc(func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"products":["Maps"]}`), nil
		})
		r := gin.New()
		r.GET("/api/ui-options", handlers.NewUIOptionsHandler(src).Get)

		w := doRequest(r, http.MethodGet, "/api/ui-options", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success","data":{"products":["Maps"]}}`, w.Body.String())

		etag := w.Header().Get("ETag")
		require.NotEmpty(t, etag)

		req := httptest.NewRequest(http.MethodGet, "/api/ui-options", nil)
		req.Header.Set("If-None-Match", "W/"+etag)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotModified, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("load failure", func(t *testing.T) {
		src := uiOptionsFunc(func(context.Context) (json.RawMessage, error) {
			return nil, errors.New("open metadata.json: no such file")
		})
		r := gin.New()
		r.GET("/api/ui-options", handlers.NewUIOptionsHandler(src).Get)

		w := doRequest(r, http.MethodGet, "/api/ui-options", "", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Could not load uiOptions", decodeEnvelope(t, w).Message)
	})
}
