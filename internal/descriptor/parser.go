package descriptor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/nestml/internal/ctxlog"
	"github.com/specialistvlad/nestml/internal/indent"
	"golang.org/x/net/html"
)

// Parser turns lines into descriptors.
type Parser struct {
	// Separator splits attribute items. Empty means DefaultSeparator.
	Separator string
	// Filename is only used for diagnostic ranges.
	Filename string
}

// Parse parses one line. The descriptor is nil exactly when the diagnostics
// contain an error.
func (p *Parser) Parse(line indent.Line) (*Descriptor, hcl.Diagnostics) {
	sep := p.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	ps := &parser{
		src:      line.Text,
		sep:      sep,
		filename: p.Filename,
		line:     line.Number,
		base:     max(strings.Index(line.Raw, line.Text), 0),
	}
	d := ps.descriptor()
	if ps.diags.HasErrors() {
		return nil, ps.diags
	}
	return d, ps.diags
}

// ParseLine parses one line, logs every warning through the context logger
// and converts a fatal diagnostic into a *MalformedLineError.
func (p *Parser) ParseLine(ctx context.Context, line indent.Line) (*Descriptor, error) {
	logger := ctxlog.FromContext(ctx)
	d, diags := p.Parse(line)
	for _, diag := range diags {
		if diag.Severity == hcl.DiagWarning {
			logger.Warn(diag.Summary, "line", line.Number, "detail", diag.Detail, "text", line.Text)
		}
	}
	if diags.HasErrors() {
		return nil, &MalformedLineError{Line: line.Number, Text: line.Text, Diags: diags}
	}
	return d, nil
}

const eof rune = -1

// groupStart lists the runes that open a group after the tag.
const groupStart = ".#([@"

// parser holds the mutable state for one line.
type parser struct {
	src      string
	pos      int
	sep      string
	filename string
	line     int
	base     int
	diags    hcl.Diagnostics
}

func (ps *parser) descriptor() *Descriptor {
	d := &Descriptor{}
	d.Tag = ps.tag()
	if d.Tag == "" {
		ps.errorf(ps.pos, "Missing tag name", "A line must start with a tag name, found %q.", ps.src)
		return nil
	}
	ps.skipSpace()
	for ps.peek() == '.' {
		start := ps.pos
		ps.next()
		tok, clean := ps.token(groupStart)
		switch {
		case tok == "":
			ps.warnf(start, "Invalid class token", "Empty class name after '.'.")
		case !clean:
			ps.warnf(start, "Invalid class token", "Class %q contains invalid characters and was dropped.", tok)
		case startsWithDigit(tok):
			ps.warnf(start, "Invalid class token", "Class %q starts with a digit and was dropped.", tok)
		default:
			d.Classes = append(d.Classes, tok)
		}
		ps.skipSpace()
	}
	if ps.peek() == '#' {
		start := ps.pos
		ps.next()
		switch tok, clean := ps.token(groupStart); {
		case tok == "":
			ps.warnf(start, "Invalid id token", "Empty id after '#'.")
		case !clean:
			ps.warnf(start, "Invalid id token", "Id %q contains invalid characters and was dropped.", tok)
		default:
			d.ID = tok
		}
		ps.skipSpace()
	}
	if ps.peek() == '(' {
		d.Text, d.HasText = ps.content()
		ps.skipSpace()
	}
	if ps.peek() == '[' {
		d.Attributes = ps.attributes()
		ps.skipSpace()
	}
	if ps.peek() == '@' {
		d.Events = ps.events()
		ps.skipSpace()
	}
	if ps.pos < len(ps.src) {
		ps.warnf(ps.pos, "Unexpected text", "Ignoring %q after the last recognized group.", ps.src[ps.pos:])
	}
	return d
}

func (ps *parser) tag() string {
	if r := ps.peek(); !isASCIILetter(r) {
		return ""
	}
	return ps.word()
}

// content reads a parenthesized group. Parentheses nest; an unterminated
// group takes the rest of the line.
func (ps *parser) content() (string, bool) {
	start := ps.pos
	ps.next()
	depth := 1
	for {
		switch ps.next() {
		case eof:
			ps.warnf(start, "Unterminated content", "Missing ')'; the rest of the line was taken as content.")
			return html.UnescapeString(ps.src[start+1:]), true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return html.UnescapeString(ps.src[start+1 : ps.pos-1]), true
			}
		}
	}
}

func (ps *parser) attributes() []Attribute {
	start := ps.pos
	ps.next()
	end := -1
	inQuotes := false
	for i, r := range ps.src[ps.pos:] {
		if r == '"' {
			inQuotes = !inQuotes
		}
		if r == ']' && !inQuotes {
			end = ps.pos + i
			break
		}
	}
	var body string
	if end < 0 {
		ps.warnf(start, "Unterminated attribute list", "Missing ']'; the rest of the line was taken as attributes.")
		body = ps.src[ps.pos:]
		ps.pos = len(ps.src)
	} else {
		body = ps.src[ps.pos:end]
		ps.pos = end + 1
	}

	var attrs []Attribute
	for _, item := range splitItems(body, ps.sep) {
		name, value, hasValue := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		switch {
		case name == "":
			ps.warnf(start, "Invalid attribute name", "Attribute item %q has no name and was dropped.", item)
			continue
		case startsWithDigit(name):
			ps.warnf(start, "Invalid attribute name", "Attribute %q starts with a digit and was dropped.", name)
			continue
		case !isAttrName(name):
			ps.warnf(start, "Invalid attribute name", "Attribute %q contains invalid characters and was dropped.", name)
			continue
		}
		a := Attribute{Name: name, HasValue: hasValue}
		if hasValue {
			a.Value = unquote(strings.TrimSpace(value))
		}
		attrs = append(attrs, a)
	}
	return attrs
}

func (ps *parser) events() []string {
	ps.next()
	var names []string
	for {
		start := ps.pos
		tok, clean := ps.token(groupStart + ";")
		switch {
		case tok == "":
			ps.warnf(start, "Invalid event name", "Empty event name.")
		case !clean:
			ps.warnf(start, "Invalid event name", "Event %q contains invalid characters and was dropped.", tok)
		case startsWithDigit(tok):
			ps.warnf(start, "Invalid event name", "Event %q starts with a digit and was dropped.", tok)
		default:
			names = append(names, tok)
		}
		if ps.peek() != ';' {
			return names
		}
		ps.next()
	}
}

func (ps *parser) word() string {
	start := ps.pos
	for isWordRune(ps.peek()) {
		ps.next()
	}
	return ps.src[start:ps.pos]
}

// token reads a word and then anything up to the next rune in stop,
// whitespace or the end of the line. clean is false when runes other than
// word runes were consumed.
func (ps *parser) token(stop string) (tok string, clean bool) {
	start := ps.pos
	ps.word()
	clean = true
	for r := ps.peek(); r != eof && r != ' ' && r != '\t' && !strings.ContainsRune(stop, r); r = ps.peek() {
		clean = false
		ps.next()
	}
	return ps.src[start:ps.pos], clean
}

func (ps *parser) skipSpace() {
	for ps.peek() == ' ' || ps.peek() == '\t' {
		ps.next()
	}
}

func (ps *parser) peek() rune {
	if ps.pos >= len(ps.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(ps.src[ps.pos:])
	return r
}

func (ps *parser) next() rune {
	if ps.pos >= len(ps.src) {
		return eof
	}
	r, s := utf8.DecodeRuneInString(ps.src[ps.pos:])
	ps.pos += s
	return r
}

func (ps *parser) warnf(at int, summary, format string, args ...any) {
	ps.diag(hcl.DiagWarning, at, summary, fmt.Sprintf(format, args...))
}

func (ps *parser) errorf(at int, summary, format string, args ...any) {
	ps.diag(hcl.DiagError, at, summary, fmt.Sprintf(format, args...))
}

func (ps *parser) diag(sev hcl.DiagnosticSeverity, at int, summary, detail string) {
	col := ps.base + at
	rng := hcl.Range{
		Filename: ps.filename,
		Start:    hcl.Pos{Line: ps.line, Column: col + 1, Byte: col},
		End:      hcl.Pos{Line: ps.line, Column: ps.base + len(ps.src) + 1, Byte: ps.base + len(ps.src)},
	}
	ps.diags = append(ps.diags, &hcl.Diagnostic{
		Severity: sev,
		Summary:  summary,
		Detail:   detail,
		Subject:  &rng,
	})
}

// splitItems splits on sep outside double quotes and drops empty items.
func splitItems(s, sep string) []string {
	var items []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); {
		if s[i] == '"' {
			inQuotes = !inQuotes
		}
		if !inQuotes && strings.HasPrefix(s[i:], sep) {
			if item := strings.TrimSpace(cur.String()); item != "" {
				items = append(items, item)
			}
			cur.Reset()
			i += len(sep)
			continue
		}
		cur.WriteByte(s[i])
		i++
	}
	if item := strings.TrimSpace(cur.String()); item != "" {
		items = append(items, item)
	}
	return items
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isWordRune(r rune) bool {
	return isASCIILetter(r) || ('0' <= r && r <= '9') || r == '_' || r == '-'
}

func isAttrName(s string) bool {
	for _, r := range s {
		if !isWordRune(r) && r != ':' && r != '.' {
			return false
		}
	}
	return true
}

func startsWithDigit(s string) bool {
	return s != "" && '0' <= s[0] && s[0] <= '9'
}
