// Package modkit provides module wiring and core deps
package modkit

import (
	"codewarden/internal/platform/config"
	"codewarden/internal/platform/logger"
	"codewarden/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	DB  *store.Store
}
