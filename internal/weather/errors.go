package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProvince is returned when a province has no feed in the province table.
	ErrUnsupportedProvince = errors.New("unsupported province")

	// ErrCircuitOpen marks a TransportError raised because the upstream breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// UpstreamError reports a BMKG response that completed with a non-success status.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("bmkg upstream error: status %d", e.StatusCode)
}

// TransportError reports a request that could not complete (dial, timeout, open breaker).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bmkg request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a feed that is not well-formed XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse feed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldError reports a required feed field that is missing or malformed.
type FieldError struct {
	Area  string // localized area name, empty when the name itself is the problem
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("feed field %q", e.Field)
	if e.Area != "" {
		msg += fmt.Sprintf(" in area %q", e.Area)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (value %q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() error { return e.Err }

// IsFeedError reports whether err came from parsing the feed.
func IsFeedError(err error) bool {
	var pe *ParseError
	var fe *FieldError
	return errors.As(err, &pe) || errors.As(err, &fe)
}
