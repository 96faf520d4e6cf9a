package main

import (
	"context"
	"log"
	"os"

	"github.com/kooo/evcam-companion/internal/buildinfo"
	"github.com/kooo/evcam-companion/internal/client/cli"
	"github.com/kooo/evcam-companion/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
