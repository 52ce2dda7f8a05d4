// Package metrics exposes the Prometheus scrape endpoint. Metric variables
// themselves live next to the code that records them; everything registers on
// the default registry via promauto.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
)

// Server serves the metrics scrape endpoint.
type Server struct {
	cfg    config.MetricsConfig
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates a metrics server from configuration.
func NewServer(cfg config.MetricsConfig, logger *logrus.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start serves the scrape endpoint in the background until the context is
// cancelled. A disabled config is a no-op.
func (s *Server) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Debug("Metrics server disabled")
		return
	}

	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, promhttp.Handler())

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{"port": s.cfg.Port, "path": s.cfg.Path}).
			Info("Metrics server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.WithError(err).Warn("Metrics server shutdown error")
	}
}
