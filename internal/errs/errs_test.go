package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("no backend configured")
	if !IsConfigError(err) {
		t.Fatal("expected a config error")
	}
	if IsConfigError(errors.New("other")) {
		t.Fatal("plain errors are not config errors")
	}
	if IsConfigError(nil) {
		t.Fatal("nil is not a config error")
	}

	// Detection survives wrapping.
	wrapped := fmt.Errorf("setup: %w", err)
	if !IsConfigError(wrapped) {
		t.Fatal("wrapped config error should still be detected")
	}
}

func TestWrapProvider(t *testing.T) {
	if WrapProvider("gateway", nil) != nil {
		t.Fatal("nil in, nil out")
	}

	base := errors.New("401 unauthorized")
	err := WrapProvider("gateway", base)
	if got := err.Error(); got != "gateway: 401 unauthorized" {
		t.Fatalf("unexpected message: %q", got)
	}
	if !errors.Is(err, base) {
		t.Fatal("wrapped error must unwrap to the cause")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Backend != "gateway" {
		t.Fatalf("expected a tagged provider error, got %v", err)
	}
}

func TestProviderErrorWithoutBackend(t *testing.T) {
	err := &ProviderError{Err: errors.New("boom")}
	if got := err.Error(); got != "boom" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestIsTransient(t *testing.T) {
	transient := []error{
		io.EOF,
		io.ErrUnexpectedEOF,
		errors.New("read tcp: connection reset by peer"),
		errors.New("429 Too Many Requests"),
		errors.New("overloaded_error: try again"),
		errors.New("context deadline exceeded"),
		WrapProvider("gateway", errors.New("503 service unavailable")),
	}
	for _, err := range transient {
		if !IsTransient(err) {
			t.Errorf("%v should be transient", err)
		}
	}

	permanent := []error{
		nil,
		errors.New("401 unauthorized"),
		errors.New("invalid model id"),
		NewConfigError("missing api key"),
	}
	for _, err := range permanent {
		if IsTransient(err) {
			t.Errorf("%v should not be transient", err)
		}
	}
}
