package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) devices(ctx context.Context) {

	devices, total, err := a.client.ListDevices(ctx, 1, 50)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	for _, d := range devices {
		state := "offline"
		if d.Online {
			state = "online"
		}
		fmt.Fprintf(a.out, "%s  %s  %s\n", d.ID, d.Name, state)
	}
	fmt.Fprintf(a.out, "Total: %d\n", total)
}

func (a *App) status(ctx context.Context, args []string) {

	deviceID, err := a.boundDevice(ctx, args)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	d, err := a.client.DeviceStatus(ctx, deviceID)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Fprintf(a.out, "Name: %s\n", d.Name)
	fmt.Fprintf(a.out, "Model: %s\n", d.Model)
	fmt.Fprintf(a.out, "App version: %s\n", d.AppVersion)
	if d.Online {
		fmt.Fprintf(a.out, "Online: yes (last heartbeat %ds ago)\n", d.SecondsSinceHeartbeat)
	} else if d.SecondsSinceHeartbeat < 0 {
		fmt.Fprintln(a.out, "Online: no (never seen)")
	} else {
		fmt.Fprintf(a.out, "Online: no (last heartbeat %ds ago)\n", d.SecondsSinceHeartbeat)
	}
	fmt.Fprintf(a.out, "Recording: %v\n", d.Recording)
	if d.StatusInfo != "" {
		fmt.Fprintf(a.out, "Info: %s\n", d.StatusInfo)
	}
}
