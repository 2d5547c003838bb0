package http

import (
	"github.com/gin-gonic/gin"

	"intent-audit/internal/middleware"
)

// RegisterRoutes mounts the run index routes on r (/api/v1/runs).
func RegisterRoutes(r *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	r.Use(mw.RateLimit())
	r.GET("", h.List)
	r.GET("/compare", h.Compare)
	r.GET("/groups", h.Groups)
}
