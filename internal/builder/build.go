package builder

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/nestml/internal/ctxlog"
	"github.com/specialistvlad/nestml/internal/descriptor"
	"github.com/specialistvlad/nestml/internal/dom"
	"github.com/specialistvlad/nestml/internal/indent"
	"github.com/specialistvlad/nestml/internal/tree"
)

// Compile compiles template and appends one root element per top-level line
// to the container, in template order. It returns the appended roots.
//
// An empty or whitespace-only template is a no-op. A malformed line aborts
// the call with a *descriptor.MalformedLineError; roots of the blocks before
// the failing one remain attached.
func (b *Builder) Compile(ctx context.Context, template string) ([]dom.Element, error) {
	logger := ctxlog.FromContext(ctx)
	if strings.TrimSpace(template) == "" {
		logger.Debug("Compile: empty template, nothing to do.")
		return nil, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.container == nil {
		return nil, ErrNoContainer
	}

	lines := indent.Split(template, b.marker)
	blocks, orphans := indent.Blocks(lines)
	for _, l := range orphans {
		logger.Warn("Nested line before the first top-level line was dropped.", "line", l.Number, "text", l.Text)
	}
	logger.Debug("Compile: template split.", "lines", len(lines), "blocks", len(blocks))

	roots := make([]dom.Element, 0, len(blocks))
	for _, blk := range blocks {
		root, err := b.buildBlock(ctx, blk)
		if err != nil {
			return roots, fmt.Errorf("compile block at line %d: %w", blk.Root.Number, err)
		}
		b.container.AppendChild(root)
		roots = append(roots, root)
	}

	logger.Debug("Compile: template compiled.", "roots", len(roots))
	return roots, nil
}

// buildBlock parses every line of blk, then materializes and nests them.
func (b *Builder) buildBlock(ctx context.Context, blk indent.Block) (dom.Element, error) {
	rootDesc, err := b.parser.ParseLine(ctx, blk.Root)
	if err != nil {
		return nil, err
	}
	descs := make([]*descriptor.Descriptor, len(blk.Lines))
	for i, l := range blk.Lines {
		if descs[i], err = b.parser.ParseLine(ctx, l); err != nil {
			return nil, err
		}
	}

	root := b.materialize(ctx, rootDesc, blk.Root.Number)
	entries := make([]tree.Entry[dom.Element], len(blk.Lines))
	for i, l := range blk.Lines {
		entries[i] = tree.Entry[dom.Element]{
			Node:  b.materialize(ctx, descs[i], l.Number),
			Depth: l.Depth,
		}
	}
	return tree.Build(root, entries, func(parent, child dom.Element) {
		parent.PrependChild(child)
	}), nil
}

// materialize creates the element for d and decorates it.
func (b *Builder) materialize(ctx context.Context, d *descriptor.Descriptor, line int) dom.Element {
	el := b.doc.CreateElement(d.Tag)
	for _, c := range d.Classes {
		el.AddClass(c)
	}
	if d.ID != "" {
		el.SetID(d.ID)
	}
	if d.HasText {
		el.SetText(d.Text)
	}
	for _, a := range d.Attributes {
		if a.HasValue {
			el.SetAttribute(a.Name, a.Value)
		} else {
			el.SetBoolAttribute(a.Name)
		}
	}

	// attached holds stored binding names, so one binding is attached once
	// however many tokens name it.
	var attached []string
	for _, name := range d.Events {
		binding, ok := b.registry.Resolve(name)
		if !ok {
			ctxlog.FromContext(ctx).Warn("Unresolved event; no listener attached.", "event", name, "line", line)
			continue
		}
		if slices.Contains(attached, binding.Name) {
			continue
		}
		attached = append(attached, binding.Name)
		el.AddEventListener(binding.Type, binding.Listener())
	}
	return el
}
