package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kooo/evcam-companion/internal/client/models"
)

// scriptedGetter returns the queued responses in order, repeating the last
// one when the script runs out.
type scriptedGetter struct {
	script []func() (*models.Command, error)
	calls  int
}

func (g *scriptedGetter) GetCommand(_ context.Context, commandID string) (*models.Command, error) {
	i := g.calls
	if i >= len(g.script) {
		i = len(g.script) - 1
	}
	g.calls++
	return g.script[i]()
}

func pending() func() (*models.Command, error) {
	return func() (*models.Command, error) {
		return &models.Command{ID: "cmd-1", Status: models.StatusPending}, nil
	}
}

func terminal(status, errMsg string) func() (*models.Command, error) {
	return func() (*models.Command, error) {
		return &models.Command{ID: "cmd-1", Status: status, ErrorMessage: errMsg}, nil
	}
}

func failing(err error) func() (*models.Command, error) {
	return func() (*models.Command, error) { return nil, err }
}

func newFastPoller(g CommandGetter, maxTicks int) *Poller {
	return &Poller{Client: g, Interval: time.Millisecond, MaxTicks: maxTicks}
}

func TestPoller_Completes(t *testing.T) {
	g := &scriptedGetter{script: []func() (*models.Command, error){
		pending(),
		pending(),
		terminal(models.StatusCompleted, ""),
	}}

	out, err := newFastPoller(g, 60).Run(context.Background(), "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, out.State)
	require.NotNil(t, out.Command)
	assert.Equal(t, 3, g.calls)
}

func TestPoller_Failure(t *testing.T) {
	g := &scriptedGetter{script: []func() (*models.Command, error){
		pending(),
		terminal(models.StatusFailed, "sd card ejected"),
	}}

	out, err := newFastPoller(g, 60).Run(context.Background(), "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, "sd card ejected", out.ErrorMessage)
}

func TestPoller_ReportsProgressUpdates(t *testing.T) {
	executing := func() (*models.Command, error) {
		return &models.Command{ID: "cmd-1", Status: models.StatusExecuting}, nil
	}
	g := &scriptedGetter{script: []func() (*models.Command, error){
		pending(),
		executing,
		executing,
		terminal(models.StatusCompleted, ""),
	}}

	var updates []string
	p := newFastPoller(g, 60)
	p.OnUpdate = func(status string) { updates = append(updates, status) }

	out, err := p.Run(context.Background(), "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, out.State)
	assert.Equal(t, []string{models.StatusPending, models.StatusExecuting, models.StatusExecuting}, updates)
}

func TestPoller_TimesOutAfterTickBudget(t *testing.T) {
	g := &scriptedGetter{script: []func() (*models.Command, error){pending()}}

	out, err := newFastPoller(g, 5).Run(context.Background(), "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, StateTimedOut, out.State)
	assert.Equal(t, 5, g.calls, "exactly one lookup per tick")
}

func TestPoller_TransientErrorsConsumeTicks(t *testing.T) {
	g := &scriptedGetter{script: []func() (*models.Command, error){
		failing(errors.New("transient")),
		failing(errors.New("transient")),
		terminal(models.StatusCompleted, ""),
	}}

	out, err := newFastPoller(g, 60).Run(context.Background(), "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, out.State)

	// when errors never stop, the budget still bounds the loop
	g = &scriptedGetter{script: []func() (*models.Command, error){failing(errors.New("down"))}}
	out, err = newFastPoller(g, 3).Run(context.Background(), "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, StateTimedOut, out.State)
	assert.Equal(t, 3, g.calls)
}

func TestPoller_CancelStopsWithoutVerdict(t *testing.T) {
	g := &scriptedGetter{script: []func() (*models.Command, error){pending()}}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{Client: g, Interval: 50 * time.Millisecond, MaxTicks: 60}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := p.Run(ctx, "cmd-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountdown_AssumesComplete(t *testing.T) {
	c := &Countdown{Wait: time.Millisecond}

	out, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAssumedComplete, out.State)
	assert.Nil(t, out.Command, "countdown never inspects the command")
}

func TestCountdown_Cancel(t *testing.T) {
	c := &Countdown{Wait: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountdownSizing(t *testing.T) {
	assert.Equal(t, 90*time.Second, NewRecordCountdown(time.Minute).Wait)
	assert.Equal(t, CountdownMargin, NewPhotoCountdown().Wait)
}
