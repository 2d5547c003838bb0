package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"intent-audit/internal/middleware"
	"intent-audit/pkg/log"
)

func newRouter(mw middleware.Middleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw.RequestID(), mw.RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r *gin.Engine, remote string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remote
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	// 10 requests per minute allows a burst of 1.
	r := newRouter(middleware.New(log.NewNop(), 10))

	if w := get(r, "10.0.0.1:1234", nil); w.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", w.Code)
	}
	if w := get(r, "10.0.0.1:1234", nil); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for second request, got %d", w.Code)
	}
	if w := get(r, "10.0.0.2:1234", nil); w.Code != http.StatusOK {
		t.Errorf("expected another client to have its own budget, got %d", w.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	r := newRouter(middleware.New(log.NewNop(), 0))
	for i := 0; i < 20; i++ {
		if w := get(r, "10.0.0.1:1234", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter(middleware.New(log.NewNop(), 0))

	w := get(r, "10.0.0.1:1234", map[string]string{middleware.HeaderRequestID: "abc"})
	if got := w.Header().Get(middleware.HeaderRequestID); got != "abc" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}

	w = get(r, "10.0.0.1:1234", nil)
	if got := w.Header().Get(middleware.HeaderRequestID); len(got) != 36 {
		t.Errorf("expected a generated uuid, got %q", got)
	}
}
