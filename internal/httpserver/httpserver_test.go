package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"intent-audit/internal/httpserver"
	"intent-audit/internal/model"
	"intent-audit/pkg/log"
)

type stubPredictor struct{}

func (stubPredictor) Predict(string) model.PredictionResult {
	return model.PredictionResult{Top1: model.ScoredIntent{Label: "LIST", Score: 1}}
}

func newServer(t *testing.T) *httpserver.HTTPServer {
	t.Helper()
	srv, err := httpserver.New(log.NewNop(), httpserver.Config{
		Port:        8080,
		Mode:        gin.TestMode,
		Environment: "test",
		Predictor:   stubPredictor{},
		Fingerprint: "fp",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return srv
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  httpserver.Config
	}{
		{"No mode", httpserver.Config{Port: 8080, Predictor: stubPredictor{}}},
		{"No port", httpserver.Config{Mode: gin.TestMode, Predictor: stubPredictor{}}},
		{"No predictor", httpserver.Config{Port: 8080, Mode: gin.TestMode}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := httpserver.New(log.NewNop(), tt.cfg); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestSystemRoutes(t *testing.T) {
	srv := newServer(t)
	for _, path := range []string{"/health", "/ready", "/live"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", w.Code)
			}
		})
	}
}

func TestPredictRouteMounted(t *testing.T) {
	srv := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/intent/predict", strings.NewReader(`{"question": "list it"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			ConfigFingerprint string `json:"config_fingerprint"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if resp.Data.ConfigFingerprint != "fp" {
		t.Errorf("expected fingerprint fp, got %q", resp.Data.ConfigFingerprint)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected a request id header")
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected runs routes to be absent without a run index, got %d", w.Code)
	}
}
