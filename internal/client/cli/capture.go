package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/kooo/evcam-companion/internal/client/dispatch"
	"github.com/kooo/evcam-companion/internal/common"
)

// photo captures a single frame. The verdict is optimistic: the expected
// capture-and-upload window is waited out, not polled.
func (a *App) photo(ctx context.Context, args []string) {

	deviceID, err := a.boundDevice(ctx, args)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	commandID, err := a.client.SendCommand(ctx, deviceID, common.KindPhoto, nil)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Fprintf(a.out, "Photo command %s sent, waiting...\n", commandID)
	outcome, err := dispatch.NewPhotoCountdown().Run(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	a.printOutcome(outcome)
}

// record starts a timed recording: record [seconds] [deviceID].
func (a *App) record(ctx context.Context, args []string) {

	seconds := 60
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintln(a.out, "Usage: record <seconds> [deviceID]")
			return
		}
		seconds = n
		args = args[1:]
	}

	deviceID, err := a.boundDevice(ctx, args)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	params, _ := json.Marshal(map[string]int{"durationSeconds": seconds})
	commandID, err := a.client.SendCommand(ctx, deviceID, common.KindRecord, params)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	duration := time.Duration(seconds) * time.Second
	fmt.Fprintf(a.out, "Recording command %s sent, waiting %s...\n", commandID, duration)
	outcome, err := dispatch.NewRecordCountdown(duration).Run(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	a.printOutcome(outcome)
}

func (a *App) startRecording(ctx context.Context, args []string) {
	a.dispatchAndPoll(ctx, args, common.KindStartRecording)
}

func (a *App) stopRecording(ctx context.Context, args []string) {
	a.dispatchAndPoll(ctx, args, common.KindStopRecording)
}

// dispatchAndPoll sends a quick command and actively polls it to a verdict.
func (a *App) dispatchAndPoll(ctx context.Context, args []string, kind string) {

	deviceID, err := a.boundDevice(ctx, args)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	commandID, err := a.client.SendCommand(ctx, deviceID, kind, nil)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Fprintf(a.out, "Command %s sent, waiting...\n", commandID)
	poller := dispatch.NewPoller(a.client)
	started := false
	poller.OnUpdate = func(status string) {
		if status == common.StatusExecuting && !started {
			started = true
			fmt.Fprintln(a.out, "Camera is working on it...")
		}
	}
	outcome, err := poller.Run(ctx, commandID)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	a.printOutcome(outcome)
}

func (a *App) printOutcome(outcome *dispatch.Outcome) {
	switch outcome.State {
	case dispatch.StateCompleted:
		fmt.Fprintln(a.out, "Done")
		if outcome.Command != nil && len(outcome.Command.Result) > 0 {
			fmt.Fprintf(a.out, "Result: %s\n", outcome.Command.Result)
		}
	case dispatch.StateFailed:
		fmt.Fprintf(a.out, "Failed: %s\n", outcome.ErrorMessage)
	case dispatch.StateTimedOut:
		fmt.Fprintln(a.out, "No response from the camera, the command may still run")
	case dispatch.StateAssumedComplete:
		fmt.Fprintln(a.out, "Done (not confirmed), check files for the result")
	}
}
