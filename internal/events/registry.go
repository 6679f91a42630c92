// Package events holds the name-keyed table of event bindings that template
// lines reference with the @name group.
//
// A Registry is owned by one builder. It is filled ahead of compilation and
// only read while a template is compiled. It has no internal locking: the
// owner serializes registration and compilation.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/nestml/internal/ctxlog"
	"github.com/specialistvlad/nestml/internal/dom"
)

var (
	ErrMissingName     = errors.New("binding name is required")
	ErrMissingType     = errors.New("binding event type is required")
	ErrMissingCallback = errors.New("binding callback is required")
)

// RegistrationError reports a binding that cannot be registered.
type RegistrationError struct {
	// Field names the missing part: "name", "type" or "callback".
	Field string
	Name  string
	Err   error
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("register event: %v", e.Err)
	}
	return fmt.Sprintf("register event %q: %v", e.Name, e.Err)
}

// Unwrap returns the sentinel for the missing field.
func (e *RegistrationError) Unwrap() error { return e.Err }

// Binding ties a registry name to an event type and callback.
type Binding struct {
	Name     string
	Type     string
	Callback dom.Handler
	Options  *dom.ListenerOptions
}

// Listener converts the binding into a dom.Listener.
func (b Binding) Listener() dom.Listener {
	return dom.Listener{Name: b.Name, Handler: b.Callback, Options: b.Options}
}

// Registry stores bindings in registration order.
type Registry struct {
	bindings []Binding
	// first maps a name to the index of its first registration.
	first map[string]int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{first: make(map[string]int)}
}

// Register adds a binding. A name written with an "on" prefix is stored
// without it, so "onclose" and "close" register the same name. Registering
// a name twice keeps both entries, but Resolve only ever returns the first.
func (r *Registry) Register(ctx context.Context, b Binding) error {
	switch {
	case b.Name == "":
		return &RegistrationError{Field: "name", Err: ErrMissingName}
	case b.Type == "":
		return &RegistrationError{Field: "type", Name: b.Name, Err: ErrMissingType}
	case b.Callback == nil:
		return &RegistrationError{Field: "callback", Name: b.Name, Err: ErrMissingCallback}
	}
	logger := ctxlog.FromContext(ctx)
	b.Name = NormalizeName(b.Name)
	if _, exists := r.first[b.Name]; exists {
		logger.Warn("Event name already registered; the first binding stays in effect.", "event", b.Name)
	} else {
		r.first[b.Name] = len(r.bindings)
	}
	logger.Debug("Registering event binding.", "event", b.Name, "type", b.Type)
	r.bindings = append(r.bindings, b)
	return nil
}

// Resolve returns the first binding stored under exactly name.
func (r *Registry) Resolve(name string) (Binding, bool) {
	i, ok := r.first[name]
	if !ok {
		return Binding{}, false
	}
	return r.bindings[i], true
}

// Len returns how many bindings were registered, duplicates included.
func (r *Registry) Len() int { return len(r.bindings) }

// Names returns the distinct registered names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.first))
	for i, b := range r.bindings {
		if r.first[b.Name] == i {
			names = append(names, b.Name)
		}
	}
	return names
}

// NormalizeName returns the name a binding is stored under: a leading "on"
// is stripped when something follows it.
func NormalizeName(name string) string {
	if rest, ok := strings.CutPrefix(name, "on"); ok && rest != "" {
		return rest
	}
	return name
}
