// Package indent splits a template into lines tagged with their nesting
// depth and groups them into top-level blocks.
//
// Depth is not measured in whitespace. Each line is trimmed first and the
// number of consecutive marker characters at the start of what remains is the
// depth; the markers are then stripped. Blank lines are dropped.
package indent

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// DefaultMarker is the nesting marker used when none is configured.
const DefaultMarker = '>'

// ErrInvalidMarker is returned by ValidateMarker.
var ErrInvalidMarker = errors.New("invalid nesting marker")

// reserved lists the runes that carry meaning in a line descriptor and so
// cannot double as the marker.
const reserved = ".#()[]@=;"

// Line is one non-blank source line.
type Line struct {
	// Number is the 1-based line number in the template.
	Number int
	// Raw is the line as written.
	Raw string
	// Depth is the count of leading markers.
	Depth int
	// Text is the descriptor text with whitespace and markers stripped.
	Text string
}

// Block is a top-level line and every nested line that follows it.
type Block struct {
	Root  Line
	Lines []Line
}

// ValidateMarker reports whether r can serve as a nesting marker.
func ValidateMarker(r rune) error {
	switch {
	case r == 0 || r == unicode.ReplacementChar:
		return fmt.Errorf("%w: empty", ErrInvalidMarker)
	case unicode.IsSpace(r):
		return fmt.Errorf("%w: whitespace", ErrInvalidMarker)
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
		return fmt.Errorf("%w: %q is a word character", ErrInvalidMarker, r)
	case strings.ContainsRune(reserved, r):
		return fmt.Errorf("%w: %q is reserved by the line grammar", ErrInvalidMarker, r)
	}
	return nil
}

// Split turns a template into its non-blank lines.
func Split(template string, marker rune) []Line {
	var lines []Line
	for i, raw := range strings.Split(template, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		rest := strings.TrimLeft(trimmed, string(marker))
		depth := strings.Count(trimmed[:len(trimmed)-len(rest)], string(marker))
		lines = append(lines, Line{
			Number: i + 1,
			Raw:    raw,
			Depth:  depth,
			Text:   strings.TrimSpace(rest),
		})
	}
	return lines
}

// Blocks partitions lines at every depth-0 line. Nested lines that appear
// before the first top-level line belong to no block and are returned as
// orphans.
func Blocks(lines []Line) (blocks []Block, orphans []Line) {
	for _, l := range lines {
		if l.Depth == 0 {
			blocks = append(blocks, Block{Root: l})
			continue
		}
		if len(blocks) == 0 {
			orphans = append(orphans, l)
			continue
		}
		last := &blocks[len(blocks)-1]
		last.Lines = append(last.Lines, l)
	}
	return blocks, orphans
}

// Reindent prefixes every non-blank line of template with levels markers so
// the template can be spliced as a nested fragment of another one. Blank
// lines are dropped: prefixed, they would become marker-only lines, which
// never parse. The result is trimmed. levels <= 0 returns the trimmed
// template.
func Reindent(template string, marker rune, levels int) string {
	if levels <= 0 {
		return strings.TrimSpace(template)
	}
	prefix := strings.Repeat(string(marker), levels)
	var b strings.Builder
	for _, raw := range strings.Split(template, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	return strings.TrimSpace(b.String())
}
