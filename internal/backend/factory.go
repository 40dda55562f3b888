package backend

import "github.com/Sn1r/shannon/internal/errs"

// Config holds what the credential resolver needs to construct a
// backend. It is resolved exactly once, before any driver exists; the
// rest of the system never re-reads ambient process state.
type Config struct {
	Kind    string // "anthropic" or "gateway"
	APIKey  string
	BaseURL string // gateway endpoint; unused for anthropic
}

// Resolve constructs the configured backend or fails with a ConfigError.
// This is the only error in the system that is raised to the caller as
// an error rather than converted to a terminal notification.
func Resolve(cfg Config) (Backend, error) {
	switch cfg.Kind {
	case "anthropic":
		return NewAnthropic(cfg.APIKey), nil

	case "gateway":
		if cfg.BaseURL == "" {
			return nil, errs.NewConfigError("gateway backend requires a base URL")
		}
		return NewGateway(NewHTTPGateway(cfg.BaseURL, cfg.APIKey, nil)), nil

	case "":
		return nil, errs.NewConfigError("no backend configured (set backend.kind in shannon.json)")

	default:
		return nil, errs.NewConfigError("unknown backend: %q (supported: anthropic, gateway)", cfg.Kind)
	}
}
