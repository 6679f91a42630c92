// Package chrome builds window chrome (title bar, control buttons and a body)
// on top of the template builder. It only shows how a component is expected
// to use the builder: it registers its click bindings, writes a template
// whose root carries a generated id, splices the caller's body template
// under it and compiles once.
package chrome

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/specialistvlad/nestml/internal/builder"
	"github.com/specialistvlad/nestml/internal/ctxlog"
	"github.com/specialistvlad/nestml/internal/dom"
	"github.com/specialistvlad/nestml/internal/events"
)

// State is the window's visibility state.
type State int

const (
	Normal State = iota
	Minimized
	Closed
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Minimized:
		return "minimized"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options describe a window.
type Options struct {
	Title string
	// Body is a template compiled inside the window body.
	Body string
}

// Window is one compiled window.
type Window struct {
	id    string
	title string
	body  string
	root  dom.Element

	mu         sync.Mutex
	state      State
	fullscreen bool
}

// New registers the window's bindings with b and compiles the window into
// b's container.
func New(ctx context.Context, b *builder.Builder, opts Options) (*Window, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	w := &Window{id: id, title: opts.Title, body: opts.Body}

	bindings := []events.Binding{
		{Name: "minimize-" + id, Type: "click", Callback: func(dom.Event) { w.toggleMinimized() }},
		{Name: "fullscreen-" + id, Type: "click", Callback: func(dom.Event) { w.toggleFullscreen() }},
		{Name: "close-" + id, Type: "click", Callback: func(dom.Event) { w.close() }},
	}
	for _, bnd := range bindings {
		if err := b.RegisterEvent(ctx, bnd); err != nil {
			return nil, fmt.Errorf("chrome: %w", err)
		}
	}

	roots, err := b.Compile(ctx, w.template(b))
	if err != nil {
		return nil, fmt.Errorf("chrome: compile window %s: %w", id, err)
	}
	w.root = roots[0]
	ctxlog.FromContext(ctx).Debug("Window created.", "id", id, "title", opts.Title)
	return w, nil
}

func (w *Window) template(b *builder.Builder) string {
	m := string(b.Marker())
	lines := []string{
		"div.window#" + w.id,
		m + "div.window-titlebar",
		m + m + "span.window-title(" + escapeContent(w.title) + ")",
		m + m + "div.window-controls",
		m + m + m + "button.window-minimize[type=button]@minimize-" + w.id,
		m + m + m + "button.window-fullscreen[type=button]@fullscreen-" + w.id,
		m + m + m + "button.window-close[type=button]@close-" + w.id,
		m + "div.window-body",
	}
	if body := b.Reindent(w.body, 2); body != "" {
		lines = append(lines, body)
	}
	return strings.Join(lines, "\n")
}

// ID returns the generated id on the window's root element.
func (w *Window) ID() string { return w.id }

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// Root returns the compiled root element.
func (w *Window) Root() dom.Element { return w.root }

// State returns the current state.
func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Fullscreen reports whether the window is in fullscreen mode.
func (w *Window) Fullscreen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fullscreen
}

func (w *Window) toggleMinimized() {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case Normal:
		w.state = Minimized
	case Minimized:
		w.state = Normal
	}
}

func (w *Window) toggleFullscreen() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Closed {
		w.fullscreen = !w.fullscreen
	}
}

func (w *Window) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = Closed
	w.fullscreen = false
}

var contentEscaper = strings.NewReplacer("&", "&amp;", "(", "&#40;", ")", "&#41;", "\r", " ", "\n", " ")

// escapeContent makes s safe inside a (content) group.
func escapeContent(s string) string {
	return contentEscaper.Replace(s)
}

func newID() (string, error) {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("chrome: generate id: %w", err)
	}
	return "win-" + hex.EncodeToString(buf[:]), nil
}
