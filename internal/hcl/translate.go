package hcl

import (
	"fmt"

	"github.com/specialistvlad/nestml/internal/config"
	"github.com/specialistvlad/nestml/internal/dom"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateFile converts one decoded file into the agnostic model.
func translateFile(fs *fileSchema, path string) (*config.Model, error) {
	m := &config.Model{}
	if fs.Marker != nil {
		m.Marker = *fs.Marker
	}
	if fs.AttributeSeparator != nil {
		m.AttributeSeparator = *fs.AttributeSeparator
	}
	for _, ev := range fs.Events {
		opts, err := translateOptions(ev.Options)
		if err != nil {
			return nil, fmt.Errorf("%s: event %q: %w", path, ev.Name, err)
		}
		m.Events = append(m.Events, &config.EventDefinition{
			Name:    ev.Name,
			Type:    ev.Type,
			Message: ev.Message,
			Options: opts,
			Source:  path,
		})
	}
	return m, nil
}

// translateOptions converts an `options` object into listener options.
// Omitted flags default to false.
func translateOptions(v *cty.Value) (*dom.ListenerOptions, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("options must be an object, got %s", ty.FriendlyName())
	}

	attrs := map[string]cty.Value{
		"capture": cty.False,
		"once":    cty.False,
		"passive": cty.False,
	}
	for it := v.ElementIterator(); it.Next(); {
		k, val := it.Element()
		attrs[k.AsString()] = val
	}

	var opts dom.ListenerOptions
	if err := gocty.FromCtyValue(cty.ObjectVal(attrs), &opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &opts, nil
}
