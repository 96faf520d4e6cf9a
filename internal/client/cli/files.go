package cli

import (
	"context"
	"fmt"
	"log"
)

// files lists recorded media: files [photo|video] [deviceID].
func (a *App) files(ctx context.Context, args []string) {

	fileType := ""
	if len(args) > 0 && (args[0] == "photo" || args[0] == "video") {
		fileType = args[0]
		args = args[1:]
	}

	deviceID, err := a.boundDevice(ctx, args)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	items, total, err := a.client.ListFiles(ctx, deviceID, fileType, 1, 50)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	for _, f := range items {
		fmt.Fprintf(a.out, "%s  %s  %s  %d bytes\n", f.ID, f.FileType, f.FileName, f.Size)
		if f.URL != "" {
			fmt.Fprintf(a.out, "    %s\n", f.URL)
		}
	}
	fmt.Fprintf(a.out, "Total: %d\n", total)
}

func (a *App) deleteFile(ctx context.Context, args []string) {

	id := ""
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		id, err = GetSimpleText(a.reader, "Enter file id to delete", a.out)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	}

	if err := a.client.DeleteFile(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Fprintf(a.out, "Deleted %s\n", id)
}
