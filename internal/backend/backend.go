// Package backend provides interchangeable query backends that test
// classified selectors against an HTML document: a static parser and a live
// headless browser. Backends are registered by name and constructed through
// New, so callers stay backend-agnostic.
package backend

import (
	"context"
	"time"

	"github.com/raysh454/sentaku/internal/selector"
)

// ProbeResult is the outcome of testing one classified selector against a
// loaded document.
type ProbeResult struct {
	Found   bool   `json:"found"`
	Status  string `json:"status"`
	Content string `json:"content"`
}

// Session is a loaded document ready to be probed. Probe absorbs per-field
// failures into Found=false plus a diagnostic status; it never fails, so one
// broken selector cannot abort a validation pass.
type Session interface {
	Probe(ctx context.Context, rec *selector.Record) *ProbeResult

	Close() error
}

// Backend loads HTML documents into probe sessions.
type Backend interface {
	Load(ctx context.Context, htmlContent string) (Session, error)

	Close() error
}

// Config selects and tunes a backend.
type Config struct {
	// Backend is the registered backend name; empty means "static".
	Backend string

	// Headless controls browser visibility for the chromedp backend.
	Headless bool

	// LoadTimeout bounds document loading (navigation + ready state).
	LoadTimeout time.Duration

	// ProbeTimeout bounds a single selector probe, including the wait for
	// the element to appear.
	ProbeTimeout time.Duration
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend:      "static",
		Headless:     true,
		LoadTimeout:  15 * time.Second,
		ProbeTimeout: 10 * time.Second,
	}
}

const (
	statusEmpty        = "Empty selector"
	statusInvalid      = "Selector is not valid"
	statusNotFound     = "Element not found"
	statusFound        = "Element found"
	statusFoundVisible = "Element found and visible"
	statusFoundHidden  = "Element found but not visible"
	statusErrorPrefix  = "Error finding element"
)
