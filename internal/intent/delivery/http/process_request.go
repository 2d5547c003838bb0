package http

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

type predictReq struct {
	Question string `json:"question" binding:"required"`
}

func (r predictReq) validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return errBlankQuestion
	}
	if utf8.RuneCountInString(r.Question) > maxQuestionLen {
		return errQuestionTooLong
	}
	return nil
}

func (h *handler) processPredictReq(c *gin.Context) (predictReq, error) {
	var req predictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(c.Request.Context(), "intent.delivery.http.processPredictReq: %v", err)
		return predictReq{}, errInvalidBody
	}
	if err := req.validate(); err != nil {
		return predictReq{}, err
	}
	return req, nil
}
