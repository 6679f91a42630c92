package hcl

import "github.com/zclconf/go-cty/cty"

// fileSchema is the top-level structure of a configuration file.
type fileSchema struct {
	Marker             *string        `hcl:"marker,optional"`
	AttributeSeparator *string        `hcl:"attribute_separator,optional"`
	Events             []*eventSchema `hcl:"event,block"`
}

// eventSchema is an `event "name" { ... }` block.
type eventSchema struct {
	Name    string     `hcl:"name,label"`
	Type    string     `hcl:"type"`
	Message string     `hcl:"message,optional"`
	Options *cty.Value `hcl:"options,optional"`
}
