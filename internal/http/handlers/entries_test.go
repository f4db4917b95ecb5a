package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/domain/activity"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/rakshithjm97/ivms3/internal/http/handlers"
	"github.com/rakshithjm97/ivms3/internal/http/middlewares"
)

func entriesRouter(store *fakeEntryStore) *gin.Engine {
	h := handlers.NewEntriesHandler(store)
	am := middlewares.NewAuthMiddleware(testJWT)

	r := gin.New()
	api := r.Group("/api", am.RequireAuth())
	api.POST("/tracker", h.SubmitTracker)
	api.POST("/resource-planning", h.SubmitResourcePlanning)
	api.POST("/resource", h.SubmitResource)
	api.POST("/daily-activity-new", h.SubmitDaily)
	return r
}

func TestSubmitTracker_StampsSubmitterFromToken(t *testing.T) {
	var rows []activity.TrackerRow
	store := &fakeEntryStore{
		trackerFn: func(_ context.Context, r []activity.TrackerRow) ([]string, error) {
			rows = r
			return []string{"a", "b"}, nil
		},
	}

	body := `{
		"email": "someone.else@aidash.com",
		"date": "2024-04-02",
		"podName": "POD-1 (Aryabhatta)",
		"product": "IVMS",
		"clientVersion": "7.1",
		"projects": [
			{"projectName": "Alpha", "task": "Digitize", "dedicatedHours": "2.5", "extraMetric": 42},
			{"projectName": "Beta", "subTask": "QC"}
		]
	}`

	tok := tokenFor(t, "worker@aidash.com", user.RoleUser)
	w := doRequest(entriesRouter(store), http.MethodPost, "/api/tracker", tok, body)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, r := range rows {
		if r.Email != "worker@aidash.com" {
			t.Fatalf("row email = %q, want token email", r.Email)
		}
	}
	if got := rows[1].Project.TaskName(); got == nil || *got != "QC" {
		t.Fatalf("subTask fallback not applied: %v", got)
	}
	for _, r := range rows {
		if string(r.MetadataJSON) != body {
			t.Fatalf("metadata is not the request body as sent: %s", r.MetadataJSON)
		}
	}

	var stored map[string]any
	if err := json.Unmarshal(rows[0].MetadataJSON, &stored); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if stored["clientVersion"] != "7.1" {
		t.Fatalf("unmodelled key dropped from metadata: %v", stored)
	}
}

func TestSubmitTracker_Validation(t *testing.T) {
	tok := tokenFor(t, "worker@aidash.com", user.RoleUser)

	tests := []struct {
		name string
		body string
	}{
		{"missing date", `{"projects":[{"projectName":"Alpha"}]}`},
		{"no projects", `{"date":"2024-04-02","projects":[]}`},
		{"bad date", `{"date":"04/02/2024","projects":[{"projectName":"Alpha"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			store := &fakeEntryStore{
				trackerFn: func(context.Context, []activity.TrackerRow) ([]string, error) {
					called = true
					return nil, nil
				},
			}

			w := doRequest(entriesRouter(store), http.MethodPost, "/api/tracker", tok, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
			}
			if called {
				t.Fatal("store should not be called")
			}
		})
	}
}

func TestSubmitDaily_DuplicateIsConflict(t *testing.T) {
	var gotEmail string
	store := &fakeEntryStore{
		dailyFn: func(_ context.Context, email string, _ activity.DailyEntry) (string, error) {
			gotEmail = email
			return "", activity.ErrDuplicateEntry
		},
	}

	tok := tokenFor(t, "worker@aidash.com", user.RoleUser)
	w := doRequest(entriesRouter(store), http.MethodPost, "/api/daily-activity-new", tok, `{"activityDate":"2024-04-02","projectName":"Alpha"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusConflict)
	}
	if gotEmail != "worker@aidash.com" {
		t.Fatalf("email = %q", gotEmail)
	}
	if env := decodeEnvelope(t, w); env.Status != "error" || env.Message == "" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestSubmitResource_RoutesBySource(t *testing.T) {
	tests := []struct {
		path string
		want activity.Source
	}{
		{"/api/resource", activity.SourceResource},
		{"/api/resource-planning", activity.SourceResourcePlan},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var got activity.Source
			store := &fakeEntryStore{
				resourceFn: func(_ context.Context, src activity.Source, email string, _ activity.ResourceEntry) (string, error) {
					got = src
					if email != "planner@aidash.com" {
						t.Errorf("email = %q", email)
					}
					return "r-1", nil
				},
			}

			tok := tokenFor(t, "planner@aidash.com", user.RoleUser)
			w := doRequest(entriesRouter(store), http.MethodPost, tt.path, tok, `{"date":"2024-04-02","podName":"POD-1 (Aryabhatta)"}`)

			if w.Code != http.StatusCreated {
				t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
			}
			if got != tt.want {
				t.Fatalf("source = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubmitResource_DateRequired(t *testing.T) {
	tok := tokenFor(t, "planner@aidash.com", user.RoleUser)
	w := doRequest(entriesRouter(&fakeEntryStore{}), http.MethodPost, "/api/resource-planning", tok, `{"podName":"POD-1 (Aryabhatta)"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "date is required" {
		t.Fatalf("message = %q", env.Message)
	}
}
