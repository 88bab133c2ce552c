package module

import "codewarden/internal/platform/config"

// Options holds configuration settings for the gate module
type Options struct {
	SnapshotPath string
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	gf := cfg.Prefix("WARDEN_")
	return Options{
		SnapshotPath: gf.MayString("GATE_PATH", "data/gate.json"),
	}
}
