package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPrefix      = "STUDY_"
	envFileVar     = envPrefix + "ENV_FILE"
	defaultEnvFile = ".env"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ProcessEnv looks variables up in the process environment first and then in
// the .env file, if one exists.
func ProcessEnv() LookupFunc {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = defaultEnvFile
	}
	fromFile, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "ignoring %s: %v\n", path, err)
	}
	return WithDotenv(os.LookupEnv, fromFile)
}

// WithDotenv layers values read from a dotenv file under lookup.
func WithDotenv(lookup LookupFunc, fromFile map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fromFile[key]
		return v, ok
	}
}

// parseEnv overlays cfg with STUDY_* variables. Durations accept Go duration
// strings or plain seconds.
func parseEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}

	strs := map[string]*string{
		"DATA_DIR":        &cfg.DataDir,
		"STORAGE_BACKEND": &cfg.StorageBackend,
		"STORAGE_DSN":     &cfg.StorageDSN,
		"PLATFORM":        &cfg.Platform,
		"LAN_IP":          &cfg.LanIP,
		"LOG_LEVEL":       &cfg.LogLevel,
		"ADMIN_USERNAME":  &cfg.AdminUsername,
		"ADMIN_PASSWORD":  &cfg.AdminPassword,
	}
	for name, dst := range strs {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "SIMULATOR"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSIMULATOR: %w", envPrefix, err)
		}
		cfg.Simulator = b
	}

	if v, ok := lookup(envPrefix + "PORT"); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", envPrefix, err)
		}
		cfg.DefaultPort = p
	}

	durs := map[string]*time.Duration{
		"PROBE_INTERVAL":  &cfg.ProbeInterval,
		"REQUEST_TIMEOUT": &cfg.RequestTimeout,
	}
	for name, dst := range durs {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			continue
		}
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
	}
	return nil
}

func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}
