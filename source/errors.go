// Package source defines the domain models and the adapter contract for content providers.
package source

import (
	"errors"
	"fmt"
)

// ErrNotSupported indicates an operation the provider's capabilities do not declare.
var ErrNotSupported = errors.New("operation not supported by source")

// ErrEmptyQuery indicates a search invoked with a blank query string.
var ErrEmptyQuery = errors.New("search query must not be empty")

// UnknownSourceError indicates a source name that resolves to neither a
// built-in adapter nor an installed extension. It is deliberately distinct
// from ProviderError so callers can render "unsupported source" instead of
// "network error".
type UnknownSourceError struct {
	Name string
	// Suggestion holds the closest registered source name, when one is near enough.
	Suggestion string
}

func (e *UnknownSourceError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown source %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown source %q", e.Name)
}

// IsUnknownSource reports whether err is an UnknownSourceError.
func IsUnknownSource(err error) bool {
	var target *UnknownSourceError
	return errors.As(err, &target)
}

// ProviderError wraps any failure originating from an adapter's network,
// parse, or invocation step. It is propagated unchanged; no layer retries.
type ProviderError struct {
	Source string
	Op     string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapProvider annotates err with the originating source and operation.
// A nil err returns nil; an existing ProviderError passes through untouched.
func WrapProvider(sourceName, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *ProviderError
	if errors.As(err, &existing) {
		return err
	}
	return &ProviderError{Source: sourceName, Op: op, Err: err}
}
