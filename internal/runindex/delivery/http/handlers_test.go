package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"intent-audit/internal/middleware"
	"intent-audit/internal/model"
	runsHTTP "intent-audit/internal/runindex/delivery/http"
	"intent-audit/internal/runindex/repository/jsonl"
	"intent-audit/internal/runindex/repository/sqlite"
	"intent-audit/internal/runindex/usecase"
	"intent-audit/pkg/log"
)

func newRouter(t *testing.T, withMirror bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l := log.NewNop()
	ctx := context.Background()

	logRepo := jsonl.New(filepath.Join(t.TempDir(), "index.jsonl"), l)
	for _, e := range []model.RunIndexEntry{
		{RunID: "r1", ConfigFingerprint: "fpA", Mode: model.ModeRulePredict},
		{RunID: "r2", ConfigFingerprint: "fpB", Mode: model.ModeRulePredict},
		{RunID: "r3", ConfigFingerprint: "fpA", Mode: model.ModeRulePredict},
	} {
		if err := logRepo.Append(ctx, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	uc := usecase.New(l, logRepo, nil)
	if withMirror {
		mirror, err := sqlite.New(ctx, ":memory:", l)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Cleanup(func() { mirror.Close() })
		uc = usecase.New(l, logRepo, mirror)
	}

	r := gin.New()
	runsHTTP.RegisterRoutes(r.Group("/api/v1/runs"), runsHTTP.New(l, uc), middleware.New(l, 0))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestList(t *testing.T) {
	w := get(newRouter(t, false), "/api/v1/runs")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Entries []model.RunIndexEntry `json:"entries"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if len(resp.Data.Entries) != 3 || resp.Data.Entries[0].RunID != "r1" {
		t.Errorf("unexpected entries: %+v", resp.Data.Entries)
	}
}

func TestCompare(t *testing.T) {
	r := newRouter(t, true)

	w := get(r, "/api/v1/runs/compare?fingerprint=fpA")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Runs  []model.RunIndexEntry `json:"runs"`
			Count int                   `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if resp.Data.Count != 2 || resp.Data.Runs[0].RunID != "r1" || resp.Data.Runs[1].RunID != "r3" {
		t.Errorf("unexpected runs: %+v", resp.Data.Runs)
	}

	if w := get(r, "/api/v1/runs/compare"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without fingerprint, got %d", w.Code)
	}
}

func TestGroups(t *testing.T) {
	w := get(newRouter(t, true), "/api/v1/runs/groups")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Groups []struct {
				Fingerprint string   `json:"fingerprint"`
				RunIDs      []string `json:"run_ids"`
			} `json:"groups"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if len(resp.Data.Groups) != 2 || resp.Data.Groups[0].Fingerprint != "fpA" {
		t.Errorf("unexpected groups: %+v", resp.Data.Groups)
	}
}

func TestCompareWithoutMirror(t *testing.T) {
	w := get(newRouter(t, false), "/api/v1/runs/compare?fingerprint=fpA")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}
