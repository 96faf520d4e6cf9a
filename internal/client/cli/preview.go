package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/kooo/evcam-companion/internal/client/preview"
)

// preview runs a live preview session, printing each refreshed frame URL.
// The session ends when the user presses Enter.
func (a *App) preview(ctx context.Context, args []string) {

	deviceID, err := a.boundDevice(ctx, args)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	loop := preview.NewLoop(a.client, func(url string) {
		fmt.Fprintf(a.out, "Frame: %s\n", url)
	})
	loop.Interval = a.config.PreviewInterval

	sessionCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(sessionCtx, deviceID)
	}()

	fmt.Fprintln(a.out, "Preview running, press Enter to stop")
	go func() {
		_, _ = a.reader.ReadString('\n')
		cancel()
	}()

	err = <-done
	stoppedByUser := sessionCtx.Err() != nil
	cancel()
	if err != nil && !stoppedByUser {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Fprintln(a.out, "Preview stopped")
}
