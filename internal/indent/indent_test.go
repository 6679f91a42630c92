package indent

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	template := "div\n\n  >span(A)\n>div\n\t>>p(B)\n   \n>>"
	got := Split(template, DefaultMarker)

	want := []Line{
		{Number: 1, Raw: "div", Depth: 0, Text: "div"},
		{Number: 3, Raw: "  >span(A)", Depth: 1, Text: "span(A)"},
		{Number: 4, Raw: ">div", Depth: 1, Text: "div"},
		{Number: 5, Raw: "\t>>p(B)", Depth: 2, Text: "p(B)"},
		{Number: 7, Raw: ">>", Depth: 2, Text: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split() mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit_CustomMarker(t *testing.T) {
	t.Parallel()

	got := Split("ul\n~li\n~~ a", '~')
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[2].Depth)
	assert.Equal(t, "a", got[2].Text)
}

func TestSplit_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Split("", DefaultMarker))
	assert.Empty(t, Split(" \n\t\n ", DefaultMarker))
}

func TestBlocks(t *testing.T) {
	t.Parallel()

	lines := Split(">orphan\na\n>b\n>>c\nd\n>e", DefaultMarker)
	blocks, orphans := Blocks(lines)

	require.Len(t, orphans, 1)
	assert.Equal(t, "orphan", orphans[0].Text)

	require.Len(t, blocks, 2)
	assert.Equal(t, "a", blocks[0].Root.Text)
	require.Len(t, blocks[0].Lines, 2)
	assert.Equal(t, "b", blocks[0].Lines[0].Text)
	assert.Equal(t, "c", blocks[0].Lines[1].Text)
	assert.Equal(t, "d", blocks[1].Root.Text)
	require.Len(t, blocks[1].Lines, 1)
	assert.Equal(t, "e", blocks[1].Lines[0].Text)
}

func TestBlocks_NoTopLevelLines(t *testing.T) {
	t.Parallel()

	blocks, orphans := Blocks(Split(">a\n>>b", DefaultMarker))
	assert.Empty(t, blocks)
	assert.Len(t, orphans, 2)
}

func TestReindent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		template string
		levels   int
		want     string
	}{
		{name: "one level", template: "p\n>span", levels: 1, want: ">p\n>>span"},
		{name: "two levels with blank lines", template: "\n  p(x)\n\n  >b\n", levels: 2, want: ">>p(x)\n>>>b"},
		{name: "zero is trim", template: "  p\n>b  \n", levels: 0, want: "p\n>b"},
		{name: "negative is trim", template: " p ", levels: -3, want: "p"},
		{name: "empty", template: "   ", levels: 3, want: ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Reindent(tc.template, DefaultMarker, tc.levels))
		})
	}
}

func TestReindent_SplicesUnderParent(t *testing.T) {
	t.Parallel()

	body := "p(B)\n>em"
	outer := "div\n" + Reindent(body, DefaultMarker, 1)
	lines := Split(outer, DefaultMarker)

	depths := make([]int, len(lines))
	for i, l := range lines {
		depths[i] = l.Depth
	}
	assert.Equal(t, []int{0, 1, 2}, depths)
}

func TestReindent_BlankLinesLeaveNoMarkerOnlyLines(t *testing.T) {
	t.Parallel()

	for _, l := range Split("div\n"+Reindent("p\n\n   \n>em", DefaultMarker, 2), DefaultMarker) {
		assert.NotEmpty(t, l.Text, "line %d is marker-only", l.Number)
	}
}

func TestValidateMarker(t *testing.T) {
	t.Parallel()

	for _, r := range []rune{'>', '~', '|', '+', '*'} {
		assert.NoError(t, ValidateMarker(r), "marker %q", r)
	}
	for _, r := range []rune{0, ' ', '\t', 'a', '3', '_', '-', '.', '#', '(', ']', '@', '=', ';'} {
		err := ValidateMarker(r)
		assert.True(t, errors.Is(err, ErrInvalidMarker), "marker %q: %v", r, err)
	}
}
