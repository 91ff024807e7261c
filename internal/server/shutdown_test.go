package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sales-dashboard/internal/config"
)

func newTestGracefulServer() *GracefulServer {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: time.Second}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, logger, cfg)
}

func TestGracefulServer_RunsHooks(t *testing.T) {
	gs := newTestGracefulServer()

	var calls atomic.Int32
	for _, name := range []string{"a", "b", "c"} {
		gs.RegisterShutdownHook(name, func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})
	}

	assert.NoError(t, gs.shutdown(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGracefulServer_HookError(t *testing.T) {
	gs := newTestGracefulServer()
	boom := errors.New("boom")
	gs.RegisterShutdownHook("ok", func(ctx context.Context) error { return nil })
	gs.RegisterShutdownHook("flush", func(ctx context.Context) error { return boom })

	err := gs.shutdown(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "flush")
}

func TestGracefulServer_HookTimeout(t *testing.T) {
	gs := newTestGracefulServer()
	gs.hookTimeout = 10 * time.Millisecond
	gs.RegisterShutdownHook("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, gs.shutdown(context.Background()), context.DeadlineExceeded)
}
