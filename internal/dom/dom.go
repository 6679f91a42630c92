// Package dom defines the node-materialization capability the template
// compiler consumes from its hosting presentation layer.
//
// The compiler never depends on what a node concretely is. It only needs to
// create an element by tag, decorate it (classes, id, text, attributes,
// listeners) and attach elements to one another. Any presentation surface
// that implements Document and Element can host compiled templates; the
// htmldom package provides one backed by golang.org/x/net/html.
package dom

// Event is delivered to a listener when an element dispatches it.
type Event struct {
	// Type is the event type, e.g. "click".
	Type string
	// Target is the element the event was dispatched on.
	Target Element
	// Detail carries caller-defined payload.
	Detail any
}

// Handler is the callback invoked for a dispatched event.
type Handler func(Event)

// ListenerOptions are the platform-specific dispatch options attached to a
// listener. Surfaces that do not support an option ignore it.
type ListenerOptions struct {
	Capture bool `cty:"capture"`
	Once    bool `cty:"once"`
	Passive bool `cty:"passive"`
}

// Listener is one event binding attached to an element.
type Listener struct {
	// Name is the registry name the listener was resolved from.
	Name    string
	Handler Handler
	Options *ListenerOptions
}

// Element is a node that can be decorated and nested.
type Element interface {
	Tag() string
	AddClass(name string)
	SetID(id string)
	SetText(text string)
	// SetAttribute sets a valued attribute.
	SetAttribute(name, value string)
	// SetBoolAttribute sets a presence-only attribute.
	SetBoolAttribute(name string)
	AddEventListener(eventType string, l Listener)
	// AppendChild attaches child as the last child of the element.
	AppendChild(child Element)
	// PrependChild attaches child as the first child of the element.
	PrependChild(child Element)
}

// Document creates elements.
type Document interface {
	CreateElement(tag string) Element
}
