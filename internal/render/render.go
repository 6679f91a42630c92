// Package render writes compiled trees as HTML, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/nestml/internal/htmldom"
	"gopkg.in/yaml.v3"
)

// Format selects an encoder.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatHTML, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q: must be 'html', 'json' or 'yaml'", s)
}

// Node is a plain snapshot of an element and its subtree.
type Node struct {
	Tag        string      `json:"tag" yaml:"tag"`
	ID         string      `json:"id,omitempty" yaml:"id,omitempty"`
	Classes    []string    `json:"classes,omitempty" yaml:"classes,omitempty"`
	Text       string      `json:"text,omitempty" yaml:"text,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	// Events lists attached listeners as "type:name".
	Events   []string `json:"events,omitempty" yaml:"events,omitempty"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Attribute is one snapshot attribute. Value is nil for a presence-only
// attribute.
type Attribute struct {
	Name  string  `json:"name" yaml:"name"`
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Snapshot copies el and its subtree into a Node.
func Snapshot(el *htmldom.Element) *Node {
	n := &Node{
		Tag:     el.Tag(),
		ID:      el.ID(),
		Classes: el.Classes(),
		Text:    el.Text(),
	}
	for _, a := range el.Attributes() {
		attr := Attribute{Name: a.Name}
		if !a.Boolean {
			v := a.Value
			attr.Value = &v
		}
		n.Attributes = append(n.Attributes, attr)
	}
	for _, l := range el.Listeners() {
		n.Events = append(n.Events, l.Type+":"+l.Name)
	}
	for _, c := range el.Children() {
		n.Children = append(n.Children, Snapshot(c))
	}
	return n
}

// Write encodes roots to w in the given format.
func Write(w io.Writer, format Format, roots []*htmldom.Element) error {
	switch format {
	case FormatHTML:
		return HTML(w, roots)
	case FormatJSON, FormatYAML:
		nodes := make([]*Node, len(roots))
		for i, r := range roots {
			nodes[i] = Snapshot(r)
		}
		if format == FormatJSON {
			return JSON(w, nodes)
		}
		return YAML(w, nodes)
	}
	return fmt.Errorf("unknown format %q", format)
}

// HTML renders each root on its own line.
func HTML(w io.Writer, roots []*htmldom.Element) error {
	for _, r := range roots {
		if err := r.Render(w); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes nodes as an indented JSON array.
func JSON(w io.Writer, nodes []*Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if nodes == nil {
		nodes = []*Node{}
	}
	if err := enc.Encode(nodes); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

// YAML writes nodes as a YAML sequence.
func YAML(w io.Writer, nodes []*Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if nodes == nil {
		nodes = []*Node{}
	}
	if err := enc.Encode(nodes); err != nil {
		return fmt.Errorf("render yaml: %w", err)
	}
	return enc.Close()
}
