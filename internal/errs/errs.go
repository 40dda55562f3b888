// Package errs provides the error taxonomy for conversation runs.
// ConfigError is raised synchronously during setup, before any driver
// exists. ProviderError wraps round-trip failures; the driver converts
// those to a terminal result instead of surfacing them to the caller.
package errs

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ConfigError reports missing or invalid backend selection/credentials.
// Never recovered internally.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps a setup failure.
func NewConfigError(format string, args ...interface{}) error {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}

// IsConfigError reports whether err is a setup failure.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ProviderError reports a failed network round trip: auth, quota,
// malformed response, transport timeout. The core never retries these.
type ProviderError struct {
	Backend string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("%s: %v", e.Backend, e.Err)
	}
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapProvider tags a round-trip failure with the backend that produced
// it. Returns nil for a nil error.
func WrapProvider(backend string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Backend: backend, Err: err}
}

// IsTransient reports whether an error looks like a transient provider
// condition (network blip, rate limit, overload). The core performs no
// retries; this only informs the hint printed alongside a failed run.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	msg := strings.ToLower(err.Error())

	transientPatterns := []string{
		"connection reset",
		"connection refused",
		"i/o timeout",
		"no such host",
		"deadline exceeded",
		"rate limit",
		"too many requests",
		"overloaded_error",
		"server_error",
		"service unavailable",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	transientCodes := []string{"429", "500", "502", "503", "529"}
	for _, code := range transientCodes {
		if strings.Contains(msg, code) {
			return true
		}
	}

	return false
}
