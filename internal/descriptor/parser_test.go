package descriptor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/nestml/internal/ctxlog"
	"github.com/specialistvlad/nestml/internal/indent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineOf(text string) indent.Line {
	return indent.Line{Number: 1, Raw: text, Text: text}
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		text      string
		sep       string
		want      *Descriptor
		wantWarns []string
	}{
		{
			name: "tag only",
			text: "div",
			want: &Descriptor{Tag: "div"},
		},
		{
			name: "every group",
			text: "tag.classA.classB#myid(Hello)[data-x=1]@click",
			want: &Descriptor{
				Tag:        "tag",
				Classes:    []string{"classA", "classB"},
				ID:         "myid",
				Text:       "Hello",
				HasText:    true,
				Attributes: []Attribute{{Name: "data-x", Value: "1", HasValue: true}},
				Events:     []string{"click"},
			},
		},
		{
			name: "custom element tag with hyphen",
			text: "my-widget_2",
			want: &Descriptor{Tag: "my-widget_2"},
		},
		{
			name: "entities in content are decoded",
			text: "p(Tom &amp; Jerry &lt;3 &#40;x&#41;)",
			want: &Descriptor{Tag: "p", Text: "Tom & Jerry <3 (x)", HasText: true},
		},
		{
			name: "nested parentheses",
			text: "p(f(x) = (a))",
			want: &Descriptor{Tag: "p", Text: "f(x) = (a)", HasText: true},
		},
		{
			name: "empty content",
			text: "span()",
			want: &Descriptor{Tag: "span", HasText: true},
		},
		{
			name: "boolean and valued attributes",
			text: `input[type=checkbox; checked ;;name="a;b"; title=x=y]`,
			want: &Descriptor{
				Tag: "input",
				Attributes: []Attribute{
					{Name: "type", Value: "checkbox", HasValue: true},
					{Name: "checked"},
					{Name: "name", Value: "a;b", HasValue: true},
					{Name: "title", Value: "x=y", HasValue: true},
				},
			},
		},
		{
			name: "rebound separator",
			text: "a[href=/x?a=1;b=2|target=_blank]",
			sep:  "|",
			want: &Descriptor{
				Tag: "a",
				Attributes: []Attribute{
					{Name: "href", Value: "/x?a=1;b=2", HasValue: true},
					{Name: "target", Value: "_blank", HasValue: true},
				},
			},
		},
		{
			name: "several events",
			text: "button@open;close;hover",
			want: &Descriptor{Tag: "button", Events: []string{"open", "close", "hover"}},
		},
		{
			name: "whitespace between groups",
			text: "div .a .b #x (hi) [k=v] @go",
			want: &Descriptor{
				Tag:        "div",
				Classes:    []string{"a", "b"},
				ID:         "x",
				Text:       "hi",
				HasText:    true,
				Attributes: []Attribute{{Name: "k", Value: "v", HasValue: true}},
				Events:     []string{"go"},
			},
		},
		{
			name:      "class starting with digit is dropped",
			text:      "div.ok.1bad.fine#id",
			want:      &Descriptor{Tag: "div", Classes: []string{"ok", "fine"}, ID: "id"},
			wantWarns: []string{"Invalid class token"},
		},
		{
			name: "class with invalid characters skips only that class",
			text: "div.md:flex.ok#main(Hi)[role=x]",
			want: &Descriptor{
				Tag:        "div",
				Classes:    []string{"ok"},
				ID:         "main",
				Text:       "Hi",
				HasText:    true,
				Attributes: []Attribute{{Name: "role", Value: "x", HasValue: true}},
			},
			wantWarns: []string{"Invalid class token"},
		},
		{
			name:      "id with invalid characters is dropped",
			text:      "div#a/b(Hi)",
			want:      &Descriptor{Tag: "div", Text: "Hi", HasText: true},
			wantWarns: []string{"Invalid id token"},
		},
		{
			name:      "event with invalid characters is dropped",
			text:      "a@sa!ve;ok",
			want:      &Descriptor{Tag: "a", Events: []string{"ok"}},
			wantWarns: []string{"Invalid event name"},
		},
		{
			name: "attribute starting with digit is dropped",
			text: "div[1x=2;y=3]",
			want: &Descriptor{
				Tag:        "div",
				Attributes: []Attribute{{Name: "y", Value: "3", HasValue: true}},
			},
			wantWarns: []string{"Invalid attribute name"},
		},
		{
			name:      "event starting with digit is dropped",
			text:      "a@2go;ok",
			want:      &Descriptor{Tag: "a", Events: []string{"ok"}},
			wantWarns: []string{"Invalid event name"},
		},
		{
			name:      "unterminated content",
			text:      "p(never closed",
			want:      &Descriptor{Tag: "p", Text: "never closed", HasText: true},
			wantWarns: []string{"Unterminated content"},
		},
		{
			name: "unterminated attributes",
			text: "p[a=1;b",
			want: &Descriptor{
				Tag:        "p",
				Attributes: []Attribute{{Name: "a", Value: "1", HasValue: true}, {Name: "b"}},
			},
			wantWarns: []string{"Unterminated attribute list"},
		},
		{
			name:      "groups out of order",
			text:      "div#id.late",
			want:      &Descriptor{Tag: "div", ID: "id"},
			wantWarns: []string{"Unexpected text"},
		},
		{
			name:      "empty class and id",
			text:      "div.#",
			want:      &Descriptor{Tag: "div"},
			wantWarns: []string{"Invalid class token", "Invalid id token"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := &Parser{Separator: tc.sep}
			got, diags := p.Parse(lineOf(tc.text))
			require.False(t, diags.HasErrors(), "unexpected errors: %v", diags)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.text, diff)
			}

			var warns []string
			for _, d := range diags {
				require.Equal(t, hcl.DiagWarning, d.Severity)
				warns = append(warns, d.Summary)
			}
			assert.Equal(t, tc.wantWarns, warns)
		})
	}
}

func TestParse_MissingTag(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", ".cls", "#id", "(text)", "1div", "@click"} {
		got, diags := (&Parser{}).Parse(lineOf(text))
		assert.Nil(t, got, "text %q", text)
		require.True(t, diags.HasErrors(), "text %q", text)
		assert.Equal(t, "Missing tag name", diags[0].Summary)
	}
}

func TestParse_DiagnosticRange(t *testing.T) {
	t.Parallel()

	line := indent.Line{Number: 7, Raw: "  >>div.9x", Depth: 2, Text: "div.9x"}
	_, diags := (&Parser{Filename: "page.nml"}).Parse(line)
	require.Len(t, diags, 1)

	subject := diags[0].Subject
	require.NotNil(t, subject)
	assert.Equal(t, "page.nml", subject.Filename)
	assert.Equal(t, 7, subject.Start.Line)
	assert.Equal(t, 8, subject.Start.Column)
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	p := &Parser{}

	d, err := p.ParseLine(ctx, lineOf("div.1bad.good"))
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, d.Classes)
	assert.Contains(t, buf.String(), "Invalid class token")
	assert.Contains(t, buf.String(), "1bad")

	_, err = p.ParseLine(ctx, indent.Line{Number: 3, Raw: ">>", Depth: 2, Text: ""})
	var malformed *MalformedLineError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 3, malformed.Line)
	assert.Contains(t, err.Error(), "malformed line 3")

	var diags hcl.Diagnostics
	require.True(t, errors.As(err, &diags))
	assert.True(t, diags.HasErrors())
}

func TestValidateSeparator(t *testing.T) {
	t.Parallel()

	for _, sep := range []string{";", "|", ",", "::"} {
		assert.NoError(t, ValidateSeparator(sep), "sep %q", sep)
	}
	for _, sep := range []string{"", " ", "=", "]", `"`, "a="} {
		assert.ErrorIs(t, ValidateSeparator(sep), ErrInvalidSeparator, "sep %q", sep)
	}
}
