package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type mockComponent struct {
	started atomic.Bool
	stopped atomic.Bool
	startFn func() error
}

func (m *mockComponent) Start() error {
	m.started.Store(true)
	if m.startFn != nil {
		return m.startFn()
	}
	// Block until stopped
	for !m.stopped.Load() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (m *mockComponent) Stop() {
	m.stopped.Store(true)
}

func TestLifecycleStartsAndStopsComponents(t *testing.T) {
	logger := zaptest.NewLogger(t)
	lc := NewLifecycle(logger)

	c1 := &mockComponent{}
	c2 := &mockComponent{}

	lc.Add("c1", c1)
	lc.Add("c2", c2)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()

	// Wait for components to start
	deadline := time.After(2 * time.Second)
	for {
		if c1.started.Load() && c2.started.Load() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("components did not start in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	assert.True(t, c1.started.Load())
	assert.True(t, c2.started.Load())

	// Trigger shutdown
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}

	assert.True(t, c1.stopped.Load())
	assert.True(t, c2.stopped.Load())
}

func TestFuncComponent(t *testing.T) {
	started := false
	stopped := false

	c := &FuncComponent{
		StartFn: func() error {
			started = true
			return nil
		},
		StopFn: func() {
			stopped = true
		},
	}

	err := c.Start()
	assert.NoError(t, err)
	assert.True(t, started)

	c.Stop()
	assert.True(t, stopped)
}
