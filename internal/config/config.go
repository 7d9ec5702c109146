package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is loaded once in main and passed down explicitly; nothing
// reads it from ambient globals mid-flight.
type Config struct {
	API      API      `toml:"api"`
	Location Location `toml:"location"`
	Profile  Profile  `toml:"profile"`
	Log      Log      `toml:"log"`
	Storage  Storage  `toml:"storage"`
}

type API struct {
	BaseURL     string `toml:"base_url" validate:"required,url"`
	Environment string `toml:"environment" validate:"required,oneof=dev staging production"`
	// TimeoutSeconds of 0 leaves requests unbounded on the client side.
	TimeoutSeconds int `toml:"timeout_seconds" validate:"gte=0"`
}

type Location struct {
	// Mode: "ip" resolves via IP geolocation, "static" pins the
	// coordinates below, "off" denies location entirely.
	Mode       string  `toml:"mode" validate:"oneof=ip static off"`
	StaticLat  float64 `toml:"static_lat" validate:"gte=-90,lte=90"`
	StaticLng  float64 `toml:"static_lng" validate:"gte=-180,lte=180"`
	IPEndpoint string  `toml:"ip_endpoint" validate:"omitempty,url"`
}

type Profile struct {
	UserID string `toml:"user_id"`
}

type Log struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

type Storage struct {
	// Dir holds the history database and TUI log files. Empty means
	// the user config directory.
	Dir string `toml:"dir"`
}

func Default() Config {
	return Config{
		API: API{
			BaseURL:     "https://api.perktap.example",
			Environment: "production",
		},
		Location: Location{
			Mode:       "ip",
			IPEndpoint: "https://ipapi.co/json",
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath is the conventional config location.
func DefaultPath() string {
	cfg, _ := os.UserConfigDir()
	return filepath.Join(cfg, "perktap", "config.toml")
}

// DataDir resolves where local state (history, logs) lives.
func (c Config) DataDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	cfg, _ := os.UserConfigDir()
	return filepath.Join(cfg, "perktap")
}

// Load reads the TOML file (missing file falls back to defaults), then
// applies environment overrides and validates the result. A .env file in
// the working directory is honored first.
func Load(path string) (Config, error) {
	godotenv.Load()

	c := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults + env only
	default:
		return c, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(&c)

	if err := validator.New().Struct(c); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("PERKTAP_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("PERKTAP_API_ENVIRONMENT"); v != "" {
		c.API.Environment = v
	}
	if v := os.Getenv("PERKTAP_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("PERKTAP_USER_ID"); v != "" {
		c.Profile.UserID = v
	}
	if v := os.Getenv("PERKTAP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PERKTAP_LOCATION_MODE"); v != "" {
		c.Location.Mode = v
	}
}
