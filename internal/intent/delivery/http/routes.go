package http

import (
	"github.com/gin-gonic/gin"

	"intent-audit/internal/middleware"
)

// RegisterRoutes mounts the intent routes on r (/api/v1/intent).
func RegisterRoutes(r *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	r.POST("/predict", mw.RateLimit(), h.Predict)
}
