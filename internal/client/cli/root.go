package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus(ctx context.Context) string {
	sess, err := a.session.Load(ctx)
	if err != nil || sess.DeviceID == "" {
		return ""
	}
	name := sess.DeviceName
	if name == "" {
		name = sess.DeviceID
	}
	return fmt.Sprintf("(%s)", name)
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to evcamctl (type 'help' for commands)")
	a.runREPL(ctx, bufio.NewScanner(os.Stdin))
}

func (a *App) runREPL(ctx context.Context, scanner *bufio.Scanner) {
	for {
		fmt.Fprintf(a.out, "evcam %s> ", a.getStatus(ctx))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: bind, unbind, devices, status, photo, record, start-recording, stop-recording, files, delete-file, preview, exit")

		case "bind":
			a.bind(ctx, args)
		case "unbind":
			a.unbind(ctx)
		case "devices":
			a.devices(ctx)
		case "status":
			a.status(ctx, args)
		case "photo":
			a.photo(ctx, args)
		case "record":
			a.record(ctx, args)
		case "start-recording":
			a.startRecording(ctx, args)
		case "stop-recording":
			a.stopRecording(ctx, args)
		case "files":
			a.files(ctx, args)
		case "delete-file":
			a.deleteFile(ctx, args)
		case "preview":
			a.preview(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}
