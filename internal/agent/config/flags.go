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
//	-d string   device identifier
//	-n string   device name
//	-m string   device model
//	-s string   secret file path
//	-b int      heartbeat interval in seconds (default from Config)
//	-i int      command poll interval in seconds (default from Config)
//	-v int      preview publish interval in seconds (default from Config)
//	-o string   media staging directory
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-n", "-m", "-s", "-b", "-i", "-v", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DeviceID, "d", cfg.DeviceID, "device identifier")
	fs.StringVar(&cfg.DeviceName, "n", cfg.DeviceName, "device name")
	fs.StringVar(&cfg.Model, "m", cfg.Model, "device model")
	fs.StringVar(&cfg.SecretPath, "s", cfg.SecretPath, "secret file path")
	heartbeatInterval := fs.Int("b", int(cfg.HeartbeatInterval.Seconds()), "heartbeat interval (in seconds)")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "command poll interval (in seconds)")
	previewInterval := fs.Int("v", int(cfg.PreviewInterval.Seconds()), "preview publish interval (in seconds)")
	fs.StringVar(&cfg.MediaDir, "o", cfg.MediaDir, "media staging directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HeartbeatInterval = time.Duration(*heartbeatInterval) * time.Second
	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
	cfg.PreviewInterval = time.Duration(*previewInterval) * time.Second
}
