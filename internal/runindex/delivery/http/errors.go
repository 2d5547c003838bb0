package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"intent-audit/internal/runindex"
	"intent-audit/pkg/response"
)

// writeError maps use-case errors to responses.
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, runindex.ErrFingerprintRequired):
		response.Error(c, err, nil)
	case errors.Is(err, runindex.ErrMirrorUnavailable):
		response.ServiceUnavailable(c, err)
	default:
		response.InternalError(c, err)
	}
}
