package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	"intent-audit/internal/middleware"
	"intent-audit/internal/model"
)

func (srv HTTPServer) mapHandlers() error {
	mw := middleware.New(srv.l, srv.requestsPerMin)

	srv.registerMiddlewares(mw)
	srv.registerSystemRoutes()

	return srv.registerDomainRoutes(mw)
}

func (srv HTTPServer) registerMiddlewares(mw middleware.Middleware) {
	srv.gin.Use(gin.Recovery(), mw.RequestID())
	if srv.mode != gin.TestMode {
		srv.gin.Use(gin.Logger())
	}

	ctx := context.Background()
	if srv.environment == model.EnvironmentProduction {
		srv.l.Infof(ctx, "HTTP mode: production")
	} else {
		srv.l.Infof(ctx, "HTTP mode: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
}

// registerDomainRoutes registers all domain routes under /api/v1.
func (srv HTTPServer) registerDomainRoutes(mw middleware.Middleware) error {
	ctx := context.Background()
	api := srv.gin.Group("/api/v1")

	if err := srv.setupIntentDomain(ctx, api, mw); err != nil {
		return err
	}

	if srv.runs != nil {
		if err := srv.setupRunsDomain(ctx, api, mw); err != nil {
			return err
		}
	} else {
		srv.l.Infof(ctx, "Run index not configured, skipping /api/v1/runs")
	}
	return nil
}
