package cli

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kooo/evcam-companion/internal/client/session"
	"github.com/kooo/evcam-companion/internal/pairing"
)

// bind attaches a camera to the account. The argument is either the JSON
// pairing payload scanned from the camera's screen or a plain device id;
// without an argument the payload is prompted for.
func (a *App) bind(ctx context.Context, args []string) {

	raw := strings.Join(args, " ")
	if raw == "" {
		var err error
		raw, err = GetSimpleText(a.reader, "Paste the pairing payload or device id", a.out)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	}

	deviceID, deviceName := raw, ""
	if p, err := pairing.Decode([]byte(raw)); err == nil {
		deviceID = p.DeviceID
		deviceName = p.DeviceName
	}

	device, err := a.client.Bind(ctx, deviceID, deviceName)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	err = a.session.Save(ctx, &session.Session{
		DeviceID:    device.ID,
		DeviceName:  device.Name,
		AccessToken: a.config.AccessToken,
	})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Fprintf(a.out, "Bound %s (%s)\n", device.Name, device.ID)
}

func (a *App) unbind(ctx context.Context) {

	sess, err := a.session.Load(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	if sess.DeviceID == "" {
		fmt.Fprintln(a.out, "No camera is bound")
		return
	}

	if err := a.client.Unbind(ctx, sess.DeviceID); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	if err := a.session.Clear(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Fprintf(a.out, "Unbound %s\n", sess.DeviceID)
}
