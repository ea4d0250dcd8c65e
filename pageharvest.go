// Package pageharvest extracts page images from a document-hosting site by
// driving a headless browser, scraping page-image markers out of rendered
// HTML, script payloads, and embedded state, and returning a normalized page
// list with constructed image URLs. It is a best-effort scraper: there is no
// protocol contract with the target site, only empirically observed patterns
// that change across site releases.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, gjson/).
package pageharvest

import (
	"errors"
	"fmt"
)

// Version is reported by the health endpoint and the CLI.
const Version = "0.3.0"

// Application error codes.
const (
	EINTERNAL    = "internal"    // unexpected internal failure
	EINVALID     = "invalid"     // input validation failure
	ENAVIGATION  = "navigation"  // all candidate navigation targets failed
	EUNAVAILABLE = "unavailable" // browser engine could not be started
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description safe to return to callers.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("pageharvest error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the root error, if available.
// Returns EINTERNAL for non-application errors and "" for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the root error, if available.
// Returns a generic message for non-application errors and "" for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper to construct an Error with formatting.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
