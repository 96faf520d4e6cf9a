// Package preview drives a live-preview session: it starts the device's
// publisher, then periodically resolves the latest frame URL and hands it to
// the consumer until the session ends or frames stop arriving.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/logging"
)

// Backend is the slice of the backend client the preview loop needs.
type Backend interface {
	SendCommand(ctx context.Context, deviceID, kind string, params []byte) (string, error)
	PreviewFrameURL(ctx context.Context, deviceID string) (string, error)
}

const (
	// DefaultInterval is the frame refresh cadence.
	DefaultInterval = 2 * time.Second
	// DefaultWarmUp gives the device time to publish a first frame after
	// start_preview before the loop begins fetching.
	DefaultWarmUp = 1 * time.Second
	// DefaultGrace bounds how long the loop tolerates fetch failures before
	// concluding the device stopped publishing.
	DefaultGrace = 10 * time.Second
	// stopTimeout bounds the best-effort stop_preview on the way out.
	stopTimeout = 3 * time.Second
)

// Loop is one preview session.
type Loop struct {
	Backend  Backend
	Interval time.Duration
	WarmUp   time.Duration
	Grace    time.Duration

	// OnFrame receives each refreshed frame URL.
	OnFrame func(url string)

	Logger logging.Logger
}

func NewLoop(backend Backend, onFrame func(url string)) *Loop {
	return &Loop{
		Backend:  backend,
		Interval: DefaultInterval,
		WarmUp:   DefaultWarmUp,
		Grace:    DefaultGrace,
		OnFrame:  onFrame,
		Logger:   logging.NewSlogLogger(slog.Default()),
	}
}

// Run starts the session and refreshes frames until ctx is cancelled or no
// frame has been fetched for the grace window. On the way out it sends
// stop_preview best-effort; a delivery failure is logged, not returned.
func (l *Loop) Run(ctx context.Context, deviceID string) error {
	if _, err := l.Backend.SendCommand(ctx, deviceID, common.KindStartPreview, nil); err != nil {
		return fmt.Errorf("start preview: %w", err)
	}
	defer l.stop(deviceID)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(l.WarmUp):
	}

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	lastFrame := time.Now()

	for {
		url, err := l.Backend.PreviewFrameURL(ctx, deviceID)
		if err == nil {
			lastFrame = time.Now()
			if l.OnFrame != nil {
				l.OnFrame(url)
			}
		} else if time.Since(lastFrame) > l.Grace {
			return fmt.Errorf("no preview frame within %s: %w", l.Grace, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// stop runs on a fresh context: the session context is usually already
// cancelled when we get here.
func (l *Loop) stop(deviceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if _, err := l.Backend.SendCommand(ctx, deviceID, common.KindStopPreview, nil); err != nil {
		l.Logger.Warn(ctx, "stop preview failed", "device_id", deviceID, "error", err)
	}
}
