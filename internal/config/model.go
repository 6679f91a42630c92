package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/specialistvlad/nestml/internal/dom"
)

// Model is the unified, format-agnostic representation of the compiler
// configuration.
type Model struct {
	// Marker is the nesting marker; empty keeps the builder default.
	Marker string
	// AttributeSeparator is empty to keep the builder default.
	AttributeSeparator string
	Events             []*EventDefinition
}

// EventDefinition declares one event binding.
type EventDefinition struct {
	Name string
	Type string
	// Message is logged when the bound event fires.
	Message string
	Options *dom.ListenerOptions
	// Source names the file the definition came from.
	Source string
}

// MarkerRune returns the configured marker as a rune. ok is false when no
// marker is configured.
func (m *Model) MarkerRune() (r rune, ok bool, err error) {
	if m.Marker == "" {
		return 0, false, nil
	}
	if utf8.RuneCountInString(m.Marker) != 1 {
		return 0, false, fmt.Errorf("marker %q must be a single character", m.Marker)
	}
	r, _ = utf8.DecodeRuneInString(m.Marker)
	return r, true, nil
}

// Merge folds other into m.
func (m *Model) Merge(other *Model) {
	if other.Marker != "" {
		m.Marker = other.Marker
	}
	if other.AttributeSeparator != "" {
		m.AttributeSeparator = other.AttributeSeparator
	}
	m.Events = append(m.Events, other.Events...)
}
