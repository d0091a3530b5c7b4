package feedback_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"treatment-backend/internal/feedback"
)

type onlyRec1 struct{}

func (onlyRec1) Exists(ctx context.Context, id string) error {
	if id != "rec-1" {
		return feedback.ErrRecommendationNotFound
	}
	return nil
}

func TestFeedbackRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := &feedback.Service{Repo: feedback.NewMemoryRepo(), Recommendations: onlyRec1{}}
	feedback.NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{name: "created", path: "/api/v1/recommendations/rec-1/feedback", body: `{"wasSuccessful":true,"actualHardness":55,"userName":"ana"}`, status: http.StatusCreated},
		{name: "missing_flag", path: "/api/v1/recommendations/rec-1/feedback", body: `{"userName":"ana"}`, status: http.StatusBadRequest},
		{name: "missing_user", path: "/api/v1/recommendations/rec-1/feedback", body: `{"wasSuccessful":false}`, status: http.StatusBadRequest},
		{name: "unknown_recommendation", path: "/api/v1/recommendations/rec-2/feedback", body: `{"wasSuccessful":true,"userName":"ana"}`, status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d body=%s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/rec-1/feedback", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var listed struct {
		Items []feedback.Feedback `json:"items"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &listed)
	if len(listed.Items) != 1 || !listed.Items[0].WasSuccessful {
		t.Fatalf("unexpected feedback list %+v", listed.Items)
	}
}
