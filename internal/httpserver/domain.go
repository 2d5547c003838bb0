package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	intentHTTP "intent-audit/internal/intent/delivery/http"
	"intent-audit/internal/middleware"
	runsHTTP "intent-audit/internal/runindex/delivery/http"
)

// setupIntentDomain registers POST /api/v1/intent/predict.
func (srv HTTPServer) setupIntentDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) error {
	h := intentHTTP.New(srv.l, srv.predictor, srv.fingerprint)
	intentHTTP.RegisterRoutes(api.Group("/intent"), h, mw)

	srv.l.Infof(ctx, "Intent domain registered (fingerprint %s)", srv.fingerprint)
	return nil
}

// setupRunsDomain registers the /api/v1/runs queries.
func (srv HTTPServer) setupRunsDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) error {
	h := runsHTTP.New(srv.l, srv.runs)
	runsHTTP.RegisterRoutes(api.Group("/runs"), h, mw)

	srv.l.Infof(ctx, "Run index domain registered")
	return nil
}
