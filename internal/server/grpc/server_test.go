package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/kooo/evcam-companion/internal/logging"
	"github.com/kooo/evcam-companion/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv, err := NewGRPCServer("127.0.0.1:0", nopLogger{}, (*services.DeviceService)(nil), (*services.CommandService)(nil), (*services.FileService)(nil), "secret")
	if err != nil {
		t.Fatalf("NewGRPCServer error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv, err := NewGRPCServer("127.0.0.1:99999", nopLogger{}, (*services.DeviceService)(nil), (*services.CommandService)(nil), (*services.FileService)(nil), "secret")
	if err != nil {
		t.Fatalf("NewGRPCServer error (constructor should not fail here): %v", err)
	}

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error for invalid port")
	}
}
