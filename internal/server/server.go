package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/sentilens/config"
	"github.com/spacesedan/sentilens/internal/analysis"
)

const (
	SHUTDOWN_TIMEOUT     = 15 * time.Second
	READ_HEADER_TIMEOUT  = 10 * time.Second
	WRITE_TIMEOUT_MARGIN = 10 * time.Second
	MULTIPART_MEMORY     = 8 << 20
)

type Server struct {
	cfg               config.AppConfig
	analyzer          *analysis.Analyzer
	metrics           *Metrics
	translatorHealthy *atomic.Bool
	router            *gin.Engine
}

// NewServer wires the HTTP surface. translatorHealthy may be nil when no
// translator runs.
func NewServer(cfg config.AppConfig, analyzer *analysis.Analyzer, metrics *Metrics, translatorHealthy *atomic.Bool) *Server {
	if translatorHealthy == nil {
		translatorHealthy = &atomic.Bool{}
		translatorHealthy.Store(true)
	}

	s := &Server{
		cfg:               cfg,
		analyzer:          analyzer,
		metrics:           metrics,
		translatorHealthy: translatorHealthy,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: READ_HEADER_TIMEOUT,
		WriteTimeout:      s.cfg.RequestTimeout + WRITE_TIMEOUT_MARGIN,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Server] Listening", slog.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("[Server] Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
