package backend

import (
	"github.com/raysh454/sentaku/internal/logging"
)

// RegisterDefaults registers the default static and chromedp backends.
// Call this from init() or early in main() to make backends available to New.
func RegisterDefaults() {
	Register("static", func(cfg *Config, logger logging.Logger) (Backend, error) {
		if logger != nil {
			logger.Debug("created static query backend")
		}
		return NewStaticBackend(logger), nil
	})

	Register("chromedp", func(cfg *Config, logger logging.Logger) (Backend, error) {
		b, err := NewChromedpBackend(cfg, logger)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Debug("created chromedp query backend",
				logging.Field{Key: "headless", Value: cfg.Headless},
				logging.Field{Key: "probe_timeout", Value: cfg.ProbeTimeout.String()})
		}
		return b, nil
	})
}
