package module

import "codewarden/internal/platform/config"

// Options holds configuration settings for the API gate module
type Options struct {
	AdminRoles []string
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	gf := cfg.Prefix("WARDEN_")
	return Options{
		AdminRoles: gf.MayCSV("ADMIN_ROLES"),
	}
}
