package server

import (
	"github.com/raysh454/sentaku/internal/backend"
	"github.com/raysh454/sentaku/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// StorageRoot is where the run history database lives. A leading ~
	// expands to the user's home directory.
	StorageRoot string

	// BackendConfig selects the default query backend for validation
	// requests that do not name one.
	BackendConfig *backend.Config

	Logger logging.Logger
}

// DefaultConfig returns the server defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		ListenAddr:    ":8474",
		StorageRoot:   "~/.config/sentaku",
		BackendConfig: backend.DefaultConfig(),
	}
}
