// Package dispatch implements the two client-side waiting strategies for an
// issued command: an active poll loop that watches for a terminal status, and
// an optimistic countdown for long-running commands whose completion the
// client assumes after a deadline instead of confirming.
package dispatch

import (
	"context"
	"time"

	"github.com/kooo/evcam-companion/internal/client/models"
)

// Outcome states. Completed and Failed mirror the server-side terminal
// statuses; TimedOut and AssumedComplete are purely client-side verdicts and
// say nothing about what the device eventually did.
const (
	StateCompleted       = "completed"
	StateFailed          = "failed"
	StateTimedOut        = "timedOut"
	StateAssumedComplete = "assumedComplete"
)

type Outcome struct {
	State   string
	Command *models.Command
	// ErrorMessage carries the device-reported failure reason for
	// StateFailed.
	ErrorMessage string
}

// CommandGetter is the slice of the backend client the poller needs.
type CommandGetter interface {
	GetCommand(ctx context.Context, commandID string) (*models.Command, error)
}

// Defaults for the active poll loop.
const (
	DefaultPollInterval = 1 * time.Second
	DefaultMaxTicks     = 60
)

// Poller watches a command until it reaches a terminal status or the tick
// budget runs out. One lookup per tick; transient lookup errors consume the
// tick and the loop keeps going.
type Poller struct {
	Client   CommandGetter
	Interval time.Duration
	MaxTicks int

	// OnUpdate, when set, receives each observed non-terminal status.
	OnUpdate func(status string)
}

func NewPoller(client CommandGetter) *Poller {
	return &Poller{Client: client, Interval: DefaultPollInterval, MaxTicks: DefaultMaxTicks}
}

// Run polls until the command is terminal, the tick budget is exhausted
// (StateTimedOut), or ctx is cancelled. Cancellation returns ctx.Err() and
// leaves the remote command untouched: the device may still execute it.
func (p *Poller) Run(ctx context.Context, commandID string) (*Outcome, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxTicks := p.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for tick := 0; tick < maxTicks; tick++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		cmd, err := p.Client.GetCommand(ctx, commandID)
		if err != nil {
			// transient; the tick is spent either way
			continue
		}

		if cmd.Terminal() {
			out := &Outcome{Command: cmd}
			if cmd.Status == models.StatusCompleted {
				out.State = StateCompleted
			} else {
				out.State = StateFailed
				out.ErrorMessage = cmd.ErrorMessage
			}
			return out, nil
		}

		if p.OnUpdate != nil {
			p.OnUpdate(cmd.Status)
		}
	}

	return &Outcome{State: StateTimedOut}, nil
}

// CountdownMargin is added on top of the expected execution time to absorb
// claim latency and upload time.
const CountdownMargin = 30 * time.Second

// Countdown is the optimistic strategy: wait out the expected duration plus
// margin and assume success without ever checking. Used for recordings,
// where a minutes-long poll loop would burn battery for no decision value.
type Countdown struct {
	Wait time.Duration
}

// NewRecordCountdown sizes the wait for a timed recording.
func NewRecordCountdown(recordDuration time.Duration) *Countdown {
	return &Countdown{Wait: recordDuration + CountdownMargin}
}

// NewPhotoCountdown sizes the wait for a photo; the capture itself is fast,
// so the margin alone bounds it.
func NewPhotoCountdown() *Countdown {
	return &Countdown{Wait: CountdownMargin}
}

// Run waits out the countdown and reports StateAssumedComplete. Cancellation
// returns ctx.Err(); as with the poller, the device is not informed.
func (c *Countdown) Run(ctx context.Context) (*Outcome, error) {
	timer := time.NewTimer(c.Wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return &Outcome{State: StateAssumedComplete}, nil
	}
}
