package config

import (
	"flag"
	"os"
	"time"

	"github.com/kooo/evcam-companion/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server (default from Config)
//	-k string   owner access token
//	-f string   session database path
//	-i int      command poll interval in seconds (default from Config)
//	-v int      preview refresh interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-f", "-i", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "k", cfg.AccessToken, "owner access token")
	fs.StringVar(&cfg.SessionDBPath, "f", cfg.SessionDBPath, "session database path")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "command poll interval (in seconds)")
	previewInterval := fs.Int("v", int(cfg.PreviewInterval.Seconds()), "preview refresh interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
	cfg.PreviewInterval = time.Duration(*previewInterval) * time.Second
}
