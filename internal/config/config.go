// config.go — flag/env/.env resolution for pilotd.
//
// The teacher carries no config layer of its own to ground this on; the
// rest of the pack's long-lived-daemon repos (kadirpekel-hector's
// v2/config/dotenv.go, helixml-helix's api/pkg/config) load a best-effort
// .env with joho/godotenv before resolving flags/env, which this mirrors:
// .env values populate the process environment but never override a
// variable already set, then cobra flags (bound via viper-less pflag
// defaults read from os.Getenv) take precedence over both.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every resolved input pilotd needs to start.
type Config struct {
	SerialDevice            string
	SerialAutodetectSubstr  string
	Baud                    int
	HTTPAddr                string
	ViewportMarginPx        float64
	LogLevel                string
}

// Defaults mirror the values named in SPEC_FULL.md's configuration table.
func Defaults() Config {
	return Config{
		Baud:             115200,
		HTTPAddr:         "127.0.0.1:8787",
		ViewportMarginPx: 20,
		LogLevel:         "info",
	}
}

// LoadDotEnv best-effort loads a .env file from the current directory.
// Silent if absent, matching the pack's convention that a missing .env is
// not an error condition (kadirpekel-hector's loadIfExists).
func LoadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// envOr returns the environment variable's value, or fallback if unset.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// FromEnv resolves a Config from environment variables layered over
// Defaults(). Flags (bound in cmd/pilotd) are applied on top of this by
// the caller when explicitly set on the command line.
func FromEnv() Config {
	d := Defaults()
	return Config{
		SerialDevice:           envOr("PILOTD_SERIAL_DEVICE", d.SerialDevice),
		SerialAutodetectSubstr: envOr("PILOTD_SERIAL_AUTODETECT_SUBSTR", d.SerialAutodetectSubstr),
		Baud:                   envOrInt("PILOTD_BAUD", d.Baud),
		HTTPAddr:               envOr("PILOTD_HTTP_ADDR", d.HTTPAddr),
		ViewportMarginPx:       envOrFloat("PILOTD_VIEWPORT_MARGIN_PX", d.ViewportMarginPx),
		LogLevel:               envOr("PILOTD_LOG_LEVEL", d.LogLevel),
	}
}

// Validate reports whether the Config has enough information to open the
// Injector: either an explicit serial device path or an autodetect
// substring.
func (c Config) Validate() error {
	if c.SerialDevice == "" && c.SerialAutodetectSubstr == "" {
		return fmt.Errorf("config: one of --serial-device or --serial-autodetect is required")
	}
	return nil
}
