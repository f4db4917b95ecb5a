package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/domain/activity"
	"github.com/rakshithjm97/ivms3/internal/http/handlers"
)

type bindErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details struct {
		JSON   string                `json:"json"`
		Field  string                `json:"field"`
		Fields []handlers.FieldError `json:"fields"`
	} `json:"details"`
}

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/daily", func(ctx *gin.Context) {
		var req activity.DailyEntry
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})
	return r
}

func postBind(t *testing.T, body string) bindErrorResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/daily", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	bindRouter().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}
	if resp.Status != "error" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
	return resp
}

func TestBindJSON_ValidationErrorsUseJSONFieldNames(t *testing.T) {
	resp := postBind(t, `{"podName":"POD-1 (Aryabhatta)"}`)

	if resp.Message != "activityDate is required" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if len(resp.Details.Fields) != 1 || resp.Details.Fields[0].Field != "activityDate" {
		t.Fatalf("unexpected fields: %+v", resp.Details.Fields)
	}
	if resp.Details.Fields[0].Rule != "required" {
		t.Fatalf("unexpected rule: %q", resp.Details.Fields[0].Rule)
	}
}

func TestBindJSON_BadDateFormat(t *testing.T) {
	resp := postBind(t, `{"activityDate":"02/04/2024"}`)

	if len(resp.Details.Fields) != 1 || resp.Details.Fields[0].Rule != "datetime" {
		t.Fatalf("unexpected fields: %+v", resp.Details.Fields)
	}
}

func TestBindJSON_TypeMismatch(t *testing.T) {
	resp := postBind(t, `{"activityDate":"2024-04-02","podName":7}`)

	if resp.Details.JSON != "invalid_json_type" {
		t.Fatalf("unexpected json detail: %q", resp.Details.JSON)
	}
	if resp.Details.Field != "podName" {
		t.Fatalf("unexpected field: %q", resp.Details.Field)
	}
}

func TestBindJSON_SyntaxError(t *testing.T) {
	resp := postBind(t, `{"activityDate":`)

	if resp.Message == "" {
		t.Fatal("expected a message")
	}
}
