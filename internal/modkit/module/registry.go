package module

import "sync"

// process-wide port registry, filled during bootstrap so modules can
// borrow each other's ports by name
var (
	mu    sync.RWMutex
	ports = map[string]any{}
)

// Register stores the port bundle published by a module
func Register(name string, bundle any) {
	mu.Lock()
	ports[name] = bundle
	mu.Unlock()
}

// PortsAs looks up a module's port bundle and asserts it to T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := ports[name]
	mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Reset clears the registry between tests
func Reset() {
	mu.Lock()
	ports = map[string]any{}
	mu.Unlock()
}
