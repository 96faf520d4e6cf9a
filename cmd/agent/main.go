package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kooo/evcam-companion/internal/agent"
	"github.com/kooo/evcam-companion/internal/agent/config"
	"github.com/kooo/evcam-companion/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	a, err := agent.NewAgent(cfg, agent.NewFakeCamera(), logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
