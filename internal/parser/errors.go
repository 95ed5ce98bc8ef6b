package parser

// errors.go defines the typed failures the parser can surface. Per-field
// decode problems never become errors; they degrade to nil values. Only
// document-level problems abort a parse, and Parse wraps every one of them
// in a single *ParseError so callers see one failure kind with the original
// cause preserved for errors.Is/As checks.

import (
	"errors"
	"fmt"
)

// ErrInvalidFeed indicates well-formed XML without a top-level feed element.
var ErrInvalidFeed = errors.New("document has no top-level feed element")

// MalformedXMLError indicates input that is not well-formed XML.
type MalformedXMLError struct {
	Cause error
}

func (e *MalformedXMLError) Error() string {
	return fmt.Sprintf("malformed XML: %v", e.Cause)
}

func (e *MalformedXMLError) Unwrap() error { return e.Cause }

// ParseError is the single top-level failure returned by Parse. It wraps
// the original cause; no partial document accompanies it.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("green button parse failed: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }
