package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Bind        string
	Port        int
	LogLevel    zerolog.Level
	HubsPath    string
	WebRoot     string
	ScanTimeout time.Duration
	CORSOrigin  string
}

func FromEnv() Config {
	cfg := Config{
		Bind:        "127.0.0.1",
		Port:        8080,
		LogLevel:    zerolog.InfoLevel,
		ScanTimeout: 5 * time.Second,
	}

	if v := os.Getenv("HUBD_BIND"); v != "" {
		cfg.Bind = v
	}
	if v := os.Getenv("HUBD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Port = p
		}
	}
	if v := os.Getenv("HUBD_LOG"); v != "" {
		if l, err := zerolog.ParseLevel(v); err == nil {
			cfg.LogLevel = l
		}
	}
	if v := os.Getenv("HUBD_SCAN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ScanTimeout = d
		}
	}
	cfg.HubsPath = os.Getenv("HUBD_HUBS_PATH")
	cfg.WebRoot = os.Getenv("HUBD_WEB_ROOT")
	cfg.CORSOrigin = os.Getenv("HUBD_CORS_ORIGIN")

	return cfg
}

// HubsPaths returns the hub configuration candidates in lookup order. An
// explicit HUBD_HUBS_PATH replaces the default search entirely.
func (c Config) HubsPaths() []string {
	if c.HubsPath != "" {
		return []string{c.HubsPath}
	}
	return []string{"hubs.yaml", "../hubs.yaml", "/etc/hubd/hubs.yaml"}
}

func (c Config) CORSOrigins() []string {
	if strings.TrimSpace(c.CORSOrigin) == "" {
		return []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}
	return []string{c.CORSOrigin}
}
