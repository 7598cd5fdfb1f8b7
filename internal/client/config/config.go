package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the client binaries.
type Config struct {
	DataDir        string
	StorageBackend string
	StorageDSN     string

	Platform  string
	Simulator bool
	LanIP     string
	// DefaultPort is the backend port used by the platform default URL.
	DefaultPort int

	ProbeInterval  time.Duration
	RequestTimeout time.Duration

	LogLevel string

	AdminUsername string
	AdminPassword string
}

const (
	DefaultDataDir        = ".studycompanion"
	DefaultStorageBackend = "sqlite"
	DefaultPlatform       = "other"
	DefaultLanIP          = "172.20.10.7"
	DefaultPort           = 8000
	DefaultLogLevel       = "info"
	DefaultAdminUsername  = "hussain-admin"
	DefaultAdminPassword  = "admin"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = DefaultDataDir
	c.StorageBackend = DefaultStorageBackend
	c.StorageDSN = ""
	c.Platform = DefaultPlatform
	c.Simulator = false
	c.LanIP = DefaultLanIP
	c.DefaultPort = DefaultPort
	c.ProbeInterval = 10 * time.Second
	c.RequestTimeout = 60 * time.Second
	c.LogLevel = DefaultLogLevel
	c.AdminUsername = DefaultAdminUsername
	c.AdminPassword = DefaultAdminPassword
}

// Load builds a Config from defaults, the config file named in args, the
// environment seen through lookup, and finally the flags in args.
func Load(args []string, lookup LookupFunc) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment, including
// the .env overlay. It panics on a bad configuration.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:], ProcessEnv())
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "sqlite", "postgres", "badger", "redis", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.DefaultPort < 1 || c.DefaultPort > 65535 {
		return fmt.Errorf("default port %d out of range", c.DefaultPort)
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe interval must be positive, got %s", c.ProbeInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
