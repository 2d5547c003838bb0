package http

import (
	"github.com/gin-gonic/gin"

	"intent-audit/internal/intent"
	"intent-audit/pkg/log"
)

// Handler is the intent HTTP delivery layer.
type Handler interface {
	Predict(c *gin.Context)
}

type handler struct {
	l           log.Logger
	predictor   intent.Predictor
	fingerprint string
}

// New creates the handler. fingerprint is the config fingerprint of the
// engine behind predictor and is echoed in every response.
func New(l log.Logger, predictor intent.Predictor, fingerprint string) Handler {
	return &handler{
		l:           l,
		predictor:   predictor,
		fingerprint: fingerprint,
	}
}
