package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tabletopkit/companion/internal/config"
)

// defaultShutdownTimeout bounds graceful drain when the config leaves
// http.shutdown_timeout unset.
const defaultShutdownTimeout = 10 * time.Second

// HTTPComponent wraps an http.Server in the Component interface.
type HTTPComponent struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewHTTPComponent creates a lifecycle component serving the given
// handler on the configured address, with the configured read, write,
// and shutdown timeouts applied.
func NewHTTPComponent(cfg config.HTTPConfig, handler http.Handler, logger *zap.Logger) *HTTPComponent {
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = defaultShutdownTimeout
	}
	return &HTTPComponent{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		shutdownTimeout: shutdown,
		logger:          logger,
	}
}

// Start serves HTTP until Stop is called.
//
// Postcondition: a graceful shutdown is reported as success, not as an
// error.
func (h *HTTPComponent) Start() error {
	h.logger.Info("http server listening", zap.String("addr", h.srv.Addr))
	if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (h *HTTPComponent) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if err := h.srv.Shutdown(ctx); err != nil {
		h.logger.Warn("http shutdown", zap.Error(err))
	}
}
