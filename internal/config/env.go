package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv
const (
	EnvCatalog        = "CAROUSEL_CATALOG"
	EnvAddr           = "CAROUSEL_ADDR"
	EnvLockDuration   = "CAROUSEL_LOCK_DURATION"
	EnvAutoplayPeriod = "CAROUSEL_AUTOPLAY_PERIOD"
	EnvBreakpoint     = "CAROUSEL_BREAKPOINT"
)

// LoadDotEnv loads .env files into the process environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// ApplyEnv overrides fields from CAROUSEL_* variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvCatalog); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLockDuration); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLockDuration, err)
		}
		c.Engine.LockDuration = d
	}
	if v := os.Getenv(EnvAutoplayPeriod); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAutoplayPeriod, err)
		}
		c.Autoplay.Period = d
	}
	if v := os.Getenv(EnvBreakpoint); v != "" {
		bp, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBreakpoint, err)
		}
		c.Viewport.Breakpoint = bp
	}
	return nil
}
