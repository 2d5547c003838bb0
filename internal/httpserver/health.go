package httpserver

import (
	"github.com/gin-gonic/gin"

	"intent-audit/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "intent-audit is serving"
	HealthVersion = "1.0.0"
	ServiceName   = "intent-audit"
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck reports ready once the engine is loaded, which New guarantees.
// @Summary Readiness Check
// @Description Report the loaded config fingerprint and whether the run index is served
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":             "ready",
		"service":            ServiceName,
		"config_fingerprint": srv.fingerprint,
		"run_index":          srv.runs != nil,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": ServiceName,
	})
}
