// Package descriptor parses one template line into a Descriptor.
//
// A line (markers already stripped) has the shape
//
//	tag .class* #id? (content)? [attributes]? @event(;event)*
//
// The groups must appear in that order and every group but the tag is
// optional. Only a missing tag is fatal. Anything else that does not fit is
// reported as a warning diagnostic and skipped, so a line with a bad class
// still yields a node with the rest of its decoration.
package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// DefaultSeparator splits attribute items.
const DefaultSeparator = ";"

// ErrInvalidSeparator is returned by ValidateSeparator.
var ErrInvalidSeparator = errors.New("invalid attribute separator")

// Attribute is one attribute item. A presence-only attribute has HasValue
// false.
type Attribute struct {
	Name     string
	Value    string
	HasValue bool
}

// Descriptor is the parsed form of one line.
type Descriptor struct {
	Tag     string
	Classes []string
	// ID is empty when the line has no id group.
	ID string
	// Text is only meaningful when HasText is set.
	Text       string
	HasText    bool
	Attributes []Attribute
	// Events are registry names, resolved when the node is materialized.
	Events []string
}

// MalformedLineError reports a line that has no recognizable tag.
type MalformedLineError struct {
	Line  int
	Text  string
	Diags hcl.Diagnostics
}

// Error implements the error interface.
func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed line %d %q: no tag name", e.Line, e.Text)
}

// Unwrap exposes the diagnostics so callers can inspect them with errors.As.
func (e *MalformedLineError) Unwrap() error {
	if len(e.Diags) == 0 {
		return nil
	}
	return e.Diags
}

// ValidateSeparator reports whether sep can split attribute items.
func ValidateSeparator(sep string) error {
	switch {
	case sep == "":
		return fmt.Errorf("%w: empty", ErrInvalidSeparator)
	case strings.TrimSpace(sep) == "":
		return fmt.Errorf("%w: whitespace only", ErrInvalidSeparator)
	case strings.ContainsAny(sep, `=]"`):
		return fmt.Errorf("%w: %q contains '=', ']' or '\"'", ErrInvalidSeparator, sep)
	}
	return nil
}
