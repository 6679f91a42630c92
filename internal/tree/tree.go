// Package tree rebuilds the nesting of one top-level block from its flat,
// depth-tagged lines.
//
// No intermediate tree or stack is built. The pending entries are resolved
// deepest first: the last entry holding the maximum depth is attached as the
// first child of the closest preceding entry one level shallower, or of the
// block root when there is none, and is then removed. Because entries are
// taken bottom-up and prepended, siblings come out in template order.
package tree

import "slices"

// Root is the parent index used for entries attached to the block root.
const Root = -1

// Link is one attachment step. Child and Parent index the pending list as it
// was given to Plan; Parent is Root for the block root.
type Link struct {
	Child  int
	Parent int
}

// Entry is a node waiting to be attached, tagged with its depth below the
// block root (direct children of the root have depth 1).
type Entry[N any] struct {
	Node  N
	Depth int
}

// Plan returns the attachment steps for entries with the given depths, in
// the order they must be applied.
func Plan(depths []int) []Link {
	pending := make([]int, len(depths))
	for i := range pending {
		pending[i] = i
	}

	links := make([]Link, 0, len(depths))
	for len(pending) > 0 {
		pick := deepest(pending, depths)
		child := pending[pick]
		links = append(links, Link{Child: child, Parent: parentOf(pending[:pick], depths, depths[child])})
		pending = slices.Delete(pending, pick, pick+1)
	}
	return links
}

// deepest returns the position in pending of the last entry with the
// maximum depth.
func deepest(pending, depths []int) int {
	best := 0
	for i, idx := range pending {
		if depths[idx] >= depths[pending[best]] {
			best = i
		}
	}
	return best
}

// parentOf returns the last entry in before whose depth is depth-1.
func parentOf(before, depths []int, depth int) int {
	for i := len(before) - 1; i >= 0; i-- {
		if depths[before[i]] == depth-1 {
			return before[i]
		}
	}
	return Root
}

// Build attaches every entry under root following Plan and returns root.
// prepend must insert child as the first child of parent.
func Build[N any](root N, entries []Entry[N], prepend func(parent, child N)) N {
	depths := make([]int, len(entries))
	for i, e := range entries {
		depths[i] = e.Depth
	}
	for _, l := range Plan(depths) {
		parent := root
		if l.Parent != Root {
			parent = entries[l.Parent].Node
		}
		prepend(parent, entries[l.Child].Node)
	}
	return root
}
