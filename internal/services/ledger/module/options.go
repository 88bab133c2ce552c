package module

import (
	"time"

	"codewarden/internal/platform/config"
)

// Options holds configuration settings for the ledger module
type Options struct {
	Expiry time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	lf := cfg.Prefix("WARDEN_")
	return Options{
		Expiry: lf.MayDuration("EXPIRY", 720*time.Hour),
	}
}
