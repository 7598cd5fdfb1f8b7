// Package config loads runtime configuration for the study companion client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. STUDY_* environment variables. A .env file (or the file named by
//     STUDY_ENV_FILE) is read too; real environment variables win over it.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d string     data directory
//	-s string     storage backend: sqlite, postgres, badger, redis, memory
//	-dsn string   storage DSN (file, connection string, directory or redis URL)
//	-p string     platform: ios, android, web, other
//	-sim          pretend to run in a simulator (use -sim=true)
//	-lan string   LAN address of the backend host
//	-port int     default backend port
//	-i int        capability probe interval (seconds)
//	-t int        request timeout (seconds)
//	-l string     log level: debug, info, warn, error
//
// # File schema
//
// Durations are timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "data_dir": ".studycompanion",
//	  "storage_backend": "sqlite",
//	  "platform": "android",
//	  "lan_ip": "192.168.1.20",
//	  "default_port": 8000,
//	  "probe_interval": "10s",
//	  "request_timeout": "1m"
//	}
package config
