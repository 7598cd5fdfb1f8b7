package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/studycompanion/internal/flagx"
)

var knownFlags = []string{
	"-d", "-s", "-dsn", "-p", "-sim", "-lan", "-port", "-i", "-t", "-l",
}

// parseFlags populates Config fields from command-line flags. args is
// filtered with flagx.FilterArgs first so flags owned by other components
// do not interfere.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend")
	fs.StringVar(&cfg.StorageDSN, "dsn", cfg.StorageDSN, "storage DSN")
	fs.StringVar(&cfg.Platform, "p", cfg.Platform, "platform (ios, android, web, other)")
	fs.BoolVar(&cfg.Simulator, "sim", cfg.Simulator, "running in a simulator")
	fs.StringVar(&cfg.LanIP, "lan", cfg.LanIP, "LAN address of the backend host")
	fs.IntVar(&cfg.DefaultPort, "port", cfg.DefaultPort, "default backend port")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	probe := fs.Int("i", int(cfg.ProbeInterval.Seconds()), "capability probe interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	// only explicit flags override, so sub-second file values survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.ProbeInterval = time.Duration(*probe) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
