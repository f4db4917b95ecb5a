package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/auth"
	"github.com/rakshithjm97/ivms3/internal/domain/activity"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/rakshithjm97/ivms3/internal/query"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

var testJWT = auth.NewManager("test-secret", time.Hour, 24*time.Hour)

func tokenFor(t *testing.T, email string, role user.Role) string {
	t.Helper()

	tok, err := testJWT.GenerateAccessToken(user.User{ID: "id-" + email, Email: email, Role: role})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func doRequest(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, buf)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	RequestID string          `json:"requestId"`
	Data      json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v body=%s", err, w.Body.String())
	}
	return env
}

// fakeActivityStore records calls so tests can assert storage was never reached.
type fakeActivityStore struct {
	listFn     func(ctx context.Context, sources []query.Table, where query.Criteria, limit int) ([]activity.Record, error)
	distinctFn func(ctx context.Context, sources []query.Table, field query.Field, where query.Criteria) ([]string, error)
	updateFn   func(ctx context.Context, e activity.Edit) (int64, error)

	calls int
}

func (f *fakeActivityStore) List(ctx context.Context, sources []query.Table, where query.Criteria, limit int) ([]activity.Record, error) {
	f.calls++
	if f.listFn != nil {
		return f.listFn(ctx, sources, where, limit)
	}
	return []activity.Record{}, nil
}

func (f *fakeActivityStore) Distinct(ctx context.Context, sources []query.Table, field query.Field, where query.Criteria) ([]string, error) {
	f.calls++
	if f.distinctFn != nil {
		return f.distinctFn(ctx, sources, field, where)
	}
	return []string{}, nil
}

func (f *fakeActivityStore) Update(ctx context.Context, e activity.Edit) (int64, error) {
	f.calls++
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return 1, nil
}

type fakeEntryStore struct {
	trackerFn  func(ctx context.Context, rows []activity.TrackerRow) ([]string, error)
	dailyFn    func(ctx context.Context, email string, e activity.DailyEntry) (string, error)
	resourceFn func(ctx context.Context, src activity.Source, email string, e activity.ResourceEntry) (string, error)
}

func (f *fakeEntryStore) CreateTrackerBatch(ctx context.Context, rows []activity.TrackerRow) ([]string, error) {
	if f.trackerFn != nil {
		return f.trackerFn(ctx, rows)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (f *fakeEntryStore) CreateDaily(ctx context.Context, email string, e activity.DailyEntry) (string, error) {
	if f.dailyFn != nil {
		return f.dailyFn(ctx, email, e)
	}
	return "1", nil
}

func (f *fakeEntryStore) CreateResource(ctx context.Context, src activity.Source, email string, e activity.ResourceEntry) (string, error) {
	if f.resourceFn != nil {
		return f.resourceFn(ctx, src, email, e)
	}
	return "r-1", nil
}

func findCriterion(c query.Criteria, field query.Field, op query.Op) (query.Criterion, bool) {
	for _, cr := range c {
		if cr.Field == field && cr.Op == op {
			return cr, true
		}
	}
	return query.Criterion{}, false
}
