package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"intent-audit/internal/runindex"
)

type compareReq struct {
	Fingerprint string `form:"fingerprint"`
}

func (r compareReq) toInput() runindex.CompareInput {
	return runindex.CompareInput{Fingerprint: strings.TrimSpace(r.Fingerprint)}
}

func (h *handler) processCompareReq(c *gin.Context) (compareReq, error) {
	var req compareReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return compareReq{}, err
	}
	return req, nil
}
