package builder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/nestml/internal/descriptor"
	"github.com/specialistvlad/nestml/internal/dom"
	"github.com/specialistvlad/nestml/internal/events"
	"github.com/specialistvlad/nestml/internal/indent"
)

var (
	// ErrNoContainer is returned when a non-empty template is compiled before
	// SetContainer was called.
	ErrNoContainer = errors.New("no container set")
	// ErrInvalidSeparator is returned by SetAttributeSeparator.
	ErrInvalidSeparator = descriptor.ErrInvalidSeparator
	// ErrInvalidMarker is returned by SetMarker.
	ErrInvalidMarker = indent.ErrInvalidMarker
)

// Builder compiles templates into elements of one dom.Document.
//
// All methods are safe for concurrent use; registration and compilation are
// serialized by a single lock.
type Builder struct {
	mu        sync.Mutex
	doc       dom.Document
	container dom.Element
	registry  *events.Registry
	parser    descriptor.Parser
	marker    rune
}

// Option configures a Builder.
type Option func(*Builder)

// WithContainer sets the initial container.
func WithContainer(el dom.Element) Option {
	return func(b *Builder) { b.container = el }
}

// WithFilename names the template source in diagnostics.
func WithFilename(name string) Option {
	return func(b *Builder) { b.parser.Filename = name }
}

// New creates a Builder that materializes nodes with doc.
func New(doc dom.Document, opts ...Option) *Builder {
	if doc == nil {
		panic("builder: document must not be nil")
	}
	b := &Builder{
		doc:      doc,
		registry: events.New(),
		parser:   descriptor.Parser{Separator: descriptor.DefaultSeparator},
		marker:   indent.DefaultMarker,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Document returns the document nodes are created with.
func (b *Builder) Document() dom.Document { return b.doc }

// SetContainer sets the element compiled roots are appended to.
func (b *Builder) SetContainer(el dom.Element) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.container = el
}

// Container returns the current container, or nil.
func (b *Builder) Container() dom.Element {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.container
}

// RegisterEvent makes a binding available to every template compiled by b.
func (b *Builder) RegisterEvent(ctx context.Context, binding events.Binding) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.registry.Register(ctx, binding); err != nil {
		return fmt.Errorf("builder: %w", err)
	}
	return nil
}

// ResolveEvent looks a binding up the way compiled templates do.
func (b *Builder) ResolveEvent(name string) (events.Binding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Resolve(name)
}

// SetAttributeSeparator changes the separator between attribute items for
// every later compilation.
func (b *Builder) SetAttributeSeparator(sep string) error {
	if err := descriptor.ValidateSeparator(sep); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parser.Separator = sep
	return nil
}

// AttributeSeparator returns the current attribute separator.
func (b *Builder) AttributeSeparator() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parser.Separator
}

// SetMarker changes the nesting marker for every later compilation and
// Reindent call.
func (b *Builder) SetMarker(marker rune) error {
	if err := indent.ValidateMarker(marker); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.marker = marker
	return nil
}

// Marker returns the current nesting marker.
func (b *Builder) Marker() rune {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.marker
}

// Reindent nests template levels deeper so it can be spliced under a line
// of another template. levels of zero returns the trimmed template.
func (b *Builder) Reindent(template string, levels int) string {
	return indent.Reindent(template, b.Marker(), levels)
}
