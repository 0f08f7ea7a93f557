// Package server provides application lifecycle management including
// graceful startup and shutdown with signal handling.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Component represents a long-running part of the application that can be
// started and stopped.
type Component interface {
	// Start begins the component. It should block until the component is
	// stopped or an error occurs.
	Start() error
	// Stop gracefully stops the component.
	Stop()
}

// FuncComponent adapts a start/stop function pair into the Component
// interface.
type FuncComponent struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncComponent) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncComponent) Stop() { f.StopFn() }

// Lifecycle manages the startup and shutdown of multiple components.
// Components are started in order and stopped in reverse order.
type Lifecycle struct {
	logger     *zap.Logger
	components []namedComponent
	mu         sync.Mutex
}

type namedComponent struct {
	name      string
	component Component
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		logger: logger,
	}
}

// Add registers a named component for lifecycle management.
// Components are started in the order they are added.
//
// Precondition: name must be non-empty; c must be non-nil.
func (l *Lifecycle) Add(name string, c Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.components = append(l.components, namedComponent{name: name, component: c})
}

// Run starts all components and blocks until a termination signal is
// received (SIGINT or SIGTERM). On signal, components are stopped in
// reverse order.
//
// Postcondition: All components are stopped when this method returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(l.components))
	for _, nc := range l.components {
		nc := nc
		go func() {
			l.logger.Info("starting component",
				zap.String("component", nc.name),
			)
			startedAt := time.Now()
			if err := nc.component.Start(); err != nil {
				l.logger.Error("component failed",
					zap.String("component", nc.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(startedAt)),
				)
				errCh <- fmt.Errorf("component %s: %w", nc.name, err)
				cancel()
			}
		}()
	}

	l.logger.Info("all components started",
		zap.Int("count", len(l.components)),
		zap.Duration("startup", time.Since(start)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down",
			zap.String("signal", sig.String()),
		)
	case err := <-errCh:
		l.logger.Error("component error, shutting down",
			zap.Error(err),
		)
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.shutdown()

	l.logger.Info("shutdown complete",
		zap.Duration("total_uptime", time.Since(start)),
	)
	return nil
}

func (l *Lifecycle) shutdown() {
	shutdownStart := time.Now()
	for i := len(l.components) - 1; i >= 0; i-- {
		nc := l.components[i]
		stopStart := time.Now()
		l.logger.Info("stopping component",
			zap.String("component", nc.name),
		)
		nc.component.Stop()
		l.logger.Info("component stopped",
			zap.String("component", nc.name),
			zap.Duration("elapsed", time.Since(stopStart)),
		)
	}
	l.logger.Info("all components stopped",
		zap.Duration("shutdown_elapsed", time.Since(shutdownStart)),
	)
}
