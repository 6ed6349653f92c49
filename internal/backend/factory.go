package backend

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/raysh454/sentaku/internal/logging"
)

// Constructor builds a Backend given the config and logger.
type Constructor func(cfg *Config, logger logging.Logger) (Backend, error)

var (
	mu       sync.RWMutex
	registry = map[string]Constructor{}
)

// Register registers a named backend constructor. Name is lower-cased
// internally. Calling Register with the same name overwrites the previous
// constructor.
func Register(name string, ctor Constructor) {
	if name == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(name)] = ctor
}

// New constructs the configured backend. It returns an error if the named
// backend has not been registered.
func New(cfg *Config, logger logging.Logger) (Backend, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if name == "" {
		name = "static"
	}

	mu.RLock()
	ctor, ok := registry[name]
	mu.RUnlock()
	if !ok || ctor == nil {
		return nil, fmt.Errorf("query backend %q not registered: available backends=%v", name, List())
	}

	b, err := ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to construct query backend %q: %w", name, err)
	}
	if b == nil {
		return nil, errors.New("backend constructor returned nil")
	}
	return b, nil
}

// List returns the list of registered backend names.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}
