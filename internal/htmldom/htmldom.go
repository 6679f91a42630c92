// Package htmldom is a presentation surface for compiled templates backed by
// golang.org/x/net/html nodes. Elements keep their html.Node in sync so a
// compiled tree can be rendered with html.Render at any time, while event
// listeners live in a side table and are invoked through Dispatch.
package htmldom

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/specialistvlad/nestml/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document creates Elements.
type Document struct{}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Element {
	return d.NewElement(tag)
}

// NewElement is CreateElement with a concrete return type.
func (d *Document) NewElement(tag string) *Element {
	return &Element{
		node: &html.Node{
			Type:     html.ElementNode,
			Data:     tag,
			DataAtom: atom.Lookup([]byte(tag)),
		},
		listeners: make(map[string][]dom.Listener),
	}
}

// Attribute is one attribute in declaration order.
type Attribute struct {
	Name  string
	Value string
	// Boolean marks a presence-only attribute; Value is empty.
	Boolean bool
}

// ListenerRef identifies an attached listener.
type ListenerRef struct {
	Type string
	Name string
}

// Element is a dom.Element wrapping an *html.Node.
type Element struct {
	node      *html.Node
	parent    *Element
	children  []*Element
	classes   []string
	attrs     []Attribute
	text      string
	listeners map[string][]dom.Listener
	// order keeps event types in first-attach order.
	order []string
}

var _ dom.Element = (*Element)(nil)

// Node returns the underlying html node.
func (e *Element) Node() *html.Node { return e.node }

// Tag implements dom.Element.
func (e *Element) Tag() string { return e.node.Data }

// Parent returns the element's parent, or nil for a detached element.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the element children in document order.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// Classes returns the class list in the order it was added.
func (e *Element) Classes() []string { return slices.Clone(e.classes) }

// ID returns the id attribute, or "".
func (e *Element) ID() string {
	v, _ := e.attr("id")
	return v
}

// Text returns the element's own text content.
func (e *Element) Text() string { return e.text }

// Attributes returns attributes set through SetAttribute and
// SetBoolAttribute, excluding class and id.
func (e *Element) Attributes() []Attribute { return slices.Clone(e.attrs) }

// Attr looks up an attribute set through SetAttribute or SetBoolAttribute.
func (e *Element) Attr(name string) (Attribute, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Listeners returns every attached listener in attach order, grouped by
// event type in the order types were first seen.
func (e *Element) Listeners() []ListenerRef {
	var refs []ListenerRef
	for _, typ := range e.order {
		for _, l := range e.listeners[typ] {
			refs = append(refs, ListenerRef{Type: typ, Name: l.Name})
		}
	}
	return refs
}

// ListenerCount returns how many listeners are attached for eventType.
func (e *Element) ListenerCount(eventType string) int {
	return len(e.listeners[eventType])
}

// AddClass implements dom.Element. Duplicate classes are ignored.
func (e *Element) AddClass(name string) {
	if name == "" || slices.Contains(e.classes, name) {
		return
	}
	e.classes = append(e.classes, name)
	e.setNodeAttr("class", strings.Join(e.classes, " "))
}

// SetID implements dom.Element.
func (e *Element) SetID(id string) {
	e.setNodeAttr("id", id)
}

// SetText implements dom.Element. Like textContent it replaces every
// existing child with a single text node.
func (e *Element) SetText(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	for _, ch := range e.children {
		ch.parent = nil
	}
	e.children = nil
	e.text = text
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// SetAttribute implements dom.Element. The class and id names are routed to
// AddClass and SetID so the node stays consistent.
func (e *Element) SetAttribute(name, value string) {
	switch name {
	case "class":
		for _, c := range strings.Fields(value) {
			e.AddClass(c)
		}
		return
	case "id":
		e.SetID(value)
		return
	}
	e.putAttr(Attribute{Name: name, Value: value})
}

// SetBoolAttribute implements dom.Element.
func (e *Element) SetBoolAttribute(name string) {
	e.putAttr(Attribute{Name: name, Boolean: true})
}

// AddEventListener implements dom.Element.
func (e *Element) AddEventListener(eventType string, l dom.Listener) {
	if _, ok := e.listeners[eventType]; !ok {
		e.order = append(e.order, eventType)
	}
	e.listeners[eventType] = append(e.listeners[eventType], l)
}

// AppendChild implements dom.Element.
func (e *Element) AppendChild(child dom.Element) {
	c := e.adopt(child)
	e.node.AppendChild(c.node)
	e.children = append(e.children, c)
}

// PrependChild implements dom.Element.
func (e *Element) PrependChild(child dom.Element) {
	c := e.adopt(child)
	e.node.InsertBefore(c.node, e.node.FirstChild)
	e.children = slices.Insert(e.children, 0, c)
}

// Dispatch invokes the listeners registered for ev.Type in attach order and
// returns how many ran. Listeners added with Once are removed after running.
// There is no propagation to ancestors.
func (e *Element) Dispatch(ev dom.Event) int {
	if ev.Target == nil {
		ev.Target = e
	}
	ls := slices.Clone(e.listeners[ev.Type])
	if len(ls) == 0 {
		return 0
	}
	kept := e.listeners[ev.Type][:0]
	for _, l := range e.listeners[ev.Type] {
		if l.Options == nil || !l.Options.Once {
			kept = append(kept, l)
		}
	}
	e.listeners[ev.Type] = kept
	for _, l := range ls {
		if l.Handler != nil {
			l.Handler(ev)
		}
	}
	return len(ls)
}

// FindByID searches the subtree rooted at e, e included, in document order.
func (e *Element) FindByID(id string) *Element {
	if e.ID() == id {
		return e
	}
	for _, c := range e.children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// Render writes the element and its subtree as HTML.
func (e *Element) Render(w io.Writer) error {
	return html.Render(w, e.node)
}

func (e *Element) adopt(child dom.Element) *Element {
	c, ok := child.(*Element)
	if !ok {
		panic(fmt.Sprintf("htmldom: cannot attach foreign element %T", child))
	}
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = e
	return c
}

func (e *Element) detach(c *Element) {
	e.node.RemoveChild(c.node)
	if i := slices.Index(e.children, c); i >= 0 {
		e.children = slices.Delete(e.children, i, i+1)
	}
	c.parent = nil
}

func (e *Element) putAttr(a Attribute) {
	if i := slices.IndexFunc(e.attrs, func(x Attribute) bool { return x.Name == a.Name }); i >= 0 {
		e.attrs[i] = a
	} else {
		e.attrs = append(e.attrs, a)
	}
	e.setNodeAttr(a.Name, a.Value)
}

func (e *Element) attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) setNodeAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}
