package module

import (
	"time"

	"codewarden/internal/platform/config"
)

// Options holds configuration settings for the moderation module
type Options struct {
	PermittedRoles []string
	Threshold      float64
	OCRHost        string
	OCRTimeout     time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	mf := cfg.Prefix("WARDEN_")
	return Options{
		PermittedRoles: mf.MayCSV("PERMITTED_ROLES"),
		Threshold:      mf.MayFloat("THRESHOLD", 0.5),
		OCRHost:        mf.MayString("OCR_URL", ""),
		OCRTimeout:     mf.MayDuration("OCR_TIMEOUT", 10*time.Second),
	}
}
