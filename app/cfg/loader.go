package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// NASA NeoWs configuration
	NasaBaseURL string `long:"nasa-base-url" env:"NASA_BASE_URL" default:"https://api.nasa.gov" description:"NASA API base URL"`
	NasaAPIKey  string `long:"nasa-api-key" env:"NASA_API_KEY" default:"DEMO_KEY" description:"NASA API key"`
	NasaTimeout int    `long:"nasa-timeout" env:"NASA_TIMEOUT" default:"10" description:"NASA API request timeout in seconds"`

	// Authentication
	AuthMode string `long:"auth-mode" env:"AUTH_MODE" default:"local" choice:"local" choice:"remote" description:"Authentication backend"`
	AuthURL  string `long:"auth-url" env:"AUTH_URL" description:"Base URL of the GoTrue-compatible auth service (remote mode)"`
	AuthKey  string `long:"auth-key" env:"AUTH_KEY" description:"API key sent to the auth service (remote mode)"`

	// Storage
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./data/neo-comb.db" description:"SQLite database file"`
	PresetsDir string `long:"presets-dir" env:"PRESETS_DIR" default:"./presets" description:"Directory containing filter preset files"`

	// Application configuration
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl         string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://neo.example.com)"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for feed loads"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"0" description:"Automatic dashboard refresh interval in seconds (0 disables)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"NEO Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses command line flags and environment. It returns nil, nil when
// --help was requested.
func Load() (*Cfg, error) {
	cfg, err := parse(os.Args[1:])
	if err != nil || cfg == nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.AuthMode == "remote" && raw.AuthURL == "" {
		return nil, fmt.Errorf("failed to parse configuration: --auth-url is required when --auth-mode=remote")
	}
	if raw.NasaTimeout <= 0 {
		return nil, fmt.Errorf("failed to parse configuration: --nasa-timeout must be positive")
	}

	return &Cfg{
		NasaBaseURL:     raw.NasaBaseURL,
		NasaAPIKey:      raw.NasaAPIKey,
		NasaTimeout:     time.Duration(raw.NasaTimeout) * time.Second,
		AuthMode:        raw.AuthMode,
		AuthURL:         raw.AuthURL,
		AuthKey:         raw.AuthKey,
		DBPath:          raw.DBPath,
		PresetsDir:      raw.PresetsDir,
		Port:            raw.Port,
		BaseUrl:         raw.BaseUrl,
		WorkerCount:     raw.WorkerCount,
		RefreshInterval: time.Duration(raw.RefreshInterval) * time.Second,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
