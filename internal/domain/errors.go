package domain

import (
	"errors"
	"fmt"
)

// Error codes for reconciliation failures
const (
	ErrHunkHeaderFormat = "HUNK_HEADER_FORMAT"
	ErrMalformedInfo    = "MALFORMED_INFO"
	ErrEvidenceCount    = "EVIDENCE_COUNT"
)

// MalformedInfoMessage is reported when a category needs evidence that the
// info field cannot supply.
const MalformedInfoMessage = "Invalid input in 'info' field"

var (
	// ErrEmptyEvidence is returned when an info field holds no Name(count) token.
	ErrEmptyEvidence = errors.New("no evidence tokens in info field")

	// ErrNotFound is returned by stores that hold no result for a query.
	ErrNotFound = errors.New("not found")
)

// FormatError represents input the reconciler cannot interpret. It aborts the
// run for the diff being processed and is never retried.
type FormatError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Input   string `json:"input"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s at line %d: %q", e.Code, e.Message, e.Line, e.Input)
	}
	return fmt.Sprintf("%s: %s: %q", e.Code, e.Message, e.Input)
}

// ConfigError represents an invalid taxonomy or service configuration
type ConfigError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for '%s': %s", e.Key, e.Message)
}

// NewFormatError creates a new FormatError
func NewFormatError(code, message, input string) *FormatError {
	return &FormatError{
		Code:    code,
		Message: message,
		Input:   input,
	}
}

// NewMalformedInfoError creates the FormatError raised when a category needs
// evidence from info and none can be read.
func NewMalformedInfoError(info string) *FormatError {
	return NewFormatError(ErrMalformedInfo, MalformedInfoMessage, info)
}

// NewConfigError creates a new ConfigError
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{
		Key:     key,
		Message: message,
	}
}

// IsMalformedInfo reports whether err carries a MALFORMED_INFO FormatError.
func IsMalformedInfo(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe) && fe.Code == ErrMalformedInfo
}

// IsFormatError reports whether err carries a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsConfigError reports whether err carries a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
