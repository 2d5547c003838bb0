package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"intent-audit/internal/intent"
	"intent-audit/internal/runindex"
	"intent-audit/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Intent domain
	predictor   intent.Predictor
	fingerprint string

	// Run index domain
	runs runindex.UseCase

	requestsPerMin int
}

// Config is the dependency bag passed to New().
type Config struct {
	Port        int
	Mode        string
	Environment string

	// Predictor serves /api/v1/intent. Fingerprint is its config fingerprint.
	Predictor   intent.Predictor
	Fingerprint string

	// Runs serves /api/v1/runs. Optional.
	Runs runindex.UseCase

	// RequestsPerMin is the per-client rate limit; 0 disables it.
	RequestsPerMin int
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.New(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		predictor:      cfg.Predictor,
		fingerprint:    cfg.Fingerprint,
		runs:           cfg.Runs,
		requestsPerMin: cfg.RequestsPerMin,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.predictor == nil {
		return errors.New("predictor is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
