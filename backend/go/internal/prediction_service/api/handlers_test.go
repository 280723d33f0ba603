package api

import (
	"KneeHeal/backend/go/internal/models"
	"KneeHeal/backend/go/internal/prediction_service/service"
	"KneeHeal/backend/go/pkg/logger"
	"KneeHeal/backend/go/pkg/ratelimiter"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePredictions struct {
	outcome   *service.Outcome
	runErr    error
	history   []models.KeyedRecord
	lastLimit int
}

func (f *fakePredictions) RunOnce(context.Context) (*service.Outcome, error) {
	return f.outcome, f.runErr
}

func (f *fakePredictions) History(_ context.Context, limit int) ([]models.KeyedRecord, error) {
	f.lastLimit = limit
	return f.history, nil
}

func newTestRouter(f *fakePredictions, limiter ratelimiter.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(NewHandler(f, 30), limiter, logger.Discard())
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(&fakePredictions{}, nil), http.MethodGet, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRunPrediction_Annotated(t *testing.T) {
	f := &fakePredictions{outcome: &service.Outcome{
		Key:        "1718000000",
		Annotation: &models.Annotation{PredictedAngle: 45, Suggestions: []string{"Great range of motion! Keep it up."}},
	}}
	w := do(newTestRouter(f, nil), http.MethodPost, "/api/v1/predictions/run")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	var resp RunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Key != "1718000000" || resp.Skipped || resp.PredictedAngle == nil || *resp.PredictedAngle != 45 || len(resp.Suggestions) != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestRunPrediction_Skipped(t *testing.T) {
	f := &fakePredictions{outcome: &service.Outcome{Key: "k", Skipped: true}}
	w := do(newTestRouter(f, nil), http.MethodPost, "/api/v1/predictions/run")
	var resp RunResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || !resp.Skipped || resp.PredictedAngle != nil {
		t.Errorf("status = %d, resp = %+v", w.Code, resp)
	}
}

func TestRunPrediction_Error(t *testing.T) {
	f := &fakePredictions{runErr: errors.New("permission denied")}
	w := do(newTestRouter(f, nil), http.MethodPost, "/api/v1/predictions/run")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHistory_Limit(t *testing.T) {
	f := &fakePredictions{history: []models.KeyedRecord{{Key: "1"}}}
	r := newTestRouter(f, nil)

	w := do(r, http.MethodGet, "/api/v1/predictions/history")
	if w.Code != http.StatusOK || f.lastLimit != 30 {
		t.Fatalf("default: status = %d, limit = %d", w.Code, f.lastLimit)
	}
	var resp HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || len(resp.Records) != 1 {
		t.Errorf("resp = %s", w.Body)
	}

	if w := do(r, http.MethodGet, "/api/v1/predictions/history?limit=5"); w.Code != http.StatusOK || f.lastLimit != 5 {
		t.Errorf("limit=5: status = %d, limit = %d", w.Code, f.lastLimit)
	}
	if w := do(r, http.MethodGet, "/api/v1/predictions/history?limit=-1"); w.Code != http.StatusBadRequest {
		t.Errorf("limit=-1: status = %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(&fakePredictions{outcome: &service.Outcome{}}, ratelimiter.NewTokenBucket(0, 1))

	if w := do(r, http.MethodPost, "/api/v1/predictions/run"); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/v1/predictions/run"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if w := do(r, http.MethodGet, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("healthz must not be rate limited, status = %d", w.Code)
	}
}
