package http

import (
	"github.com/gin-gonic/gin"

	"intent-audit/internal/runindex"
	"intent-audit/pkg/log"
)

// Handler is the run index HTTP delivery layer.
type Handler interface {
	List(c *gin.Context)
	Compare(c *gin.Context)
	Groups(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc runindex.UseCase
}

// New creates a new HTTP handler for the run index.
func New(l log.Logger, uc runindex.UseCase) Handler {
	return &handler{l: l, uc: uc}
}
