package module

import "codewarden/internal/platform/config"

// Options holds configuration settings for the API warnings module
type Options struct {
	AdminRoles []string
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	wf := cfg.Prefix("WARDEN_")
	return Options{
		AdminRoles: wf.MayCSV("ADMIN_ROLES"),
	}
}
