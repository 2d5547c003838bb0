package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"intent-audit/pkg/response"
)

func TestResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("OK", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		response.OK(c, map[string]string{"label": "LIST"})

		if w.Code != http.StatusOK {
			t.Errorf("expected %d but got %d", http.StatusOK, w.Code)
		}
		var resp response.Resp
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if resp.ErrorCode != 0 || resp.Message != response.MessageSuccess {
			t.Errorf("unexpected envelope: %+v", resp)
		}
		data, ok := resp.Data.(map[string]any)
		if !ok || data["label"] != "LIST" {
			t.Errorf("unexpected data payload: %v", resp.Data)
		}
	})

	t.Run("Error", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		response.Error(c, errors.New("question is required"), nil)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected %d, got %d", http.StatusBadRequest, w.Code)
		}
		var resp response.Resp
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if resp.ErrorCode != response.ErrorCodeBadRequest || resp.Message != "question is required" {
			t.Errorf("unexpected envelope: %+v", resp)
		}
		if resp.Data == nil {
			t.Errorf("expected empty map for nil data, got nil")
		}
	})

	tests := []struct {
		name string
		call func(c *gin.Context)
		code int
	}{
		{"NotFound", func(c *gin.Context) { response.NotFound(c, errors.New("no such run")) }, http.StatusNotFound},
		{"TooManyRequests", response.TooManyRequests, http.StatusTooManyRequests},
		{"ServiceUnavailable", func(c *gin.Context) { response.ServiceUnavailable(c, errors.New("mirror off")) }, http.StatusServiceUnavailable},
		{"InternalError", func(c *gin.Context) { response.InternalError(c, errors.New("db crash")) }, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.call(c)

			if w.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}

	t.Run("InternalError hides the cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		response.InternalError(c, errors.New("db crash"))

		var resp response.Resp
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if resp.Message != response.DefaultErrorMessage {
			t.Errorf("expected %q, got %q", response.DefaultErrorMessage, resp.Message)
		}
	})
}
