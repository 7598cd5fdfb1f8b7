package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/studycompanion/internal/flagx"
	"github.com/dmitrijs2005/studycompanion/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding config files. Zero
// values leave the current setting alone.
type FileConfig struct {
	DataDir        string         `json:"data_dir" yaml:"data_dir"`
	StorageBackend string         `json:"storage_backend" yaml:"storage_backend"`
	StorageDSN     string         `json:"storage_dsn" yaml:"storage_dsn"`
	Platform       string         `json:"platform" yaml:"platform"`
	Simulator      *bool          `json:"simulator" yaml:"simulator"`
	LanIP          string         `json:"lan_ip" yaml:"lan_ip"`
	DefaultPort    int            `json:"default_port" yaml:"default_port"`
	ProbeInterval  timex.Duration `json:"probe_interval" yaml:"probe_interval"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
	AdminUsername  string         `json:"admin_username" yaml:"admin_username"`
	AdminPassword  string         `json:"admin_password" yaml:"admin_password"`
}

// parseFile overlays cfg with the file given by -c/-config in args. Without
// such a flag it does nothing.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return err
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.StorageBackend, fc.StorageBackend)
	setString(&cfg.StorageDSN, fc.StorageDSN)
	setString(&cfg.Platform, fc.Platform)
	setString(&cfg.LanIP, fc.LanIP)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.AdminUsername, fc.AdminUsername)
	setString(&cfg.AdminPassword, fc.AdminPassword)

	if fc.Simulator != nil {
		cfg.Simulator = *fc.Simulator
	}
	if fc.DefaultPort != 0 {
		cfg.DefaultPort = fc.DefaultPort
	}
	if fc.ProbeInterval.Duration != 0 {
		cfg.ProbeInterval = fc.ProbeInterval.Duration
	}
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
