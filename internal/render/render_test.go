package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/nestml/internal/dom"
	"github.com/specialistvlad/nestml/internal/htmldom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func ptr(s string) *string { return &s }

func sampleTree() *htmldom.Element {
	doc := htmldom.NewDocument()
	root := doc.NewElement("form")
	root.SetID("login")
	root.AddClass("card")

	input := doc.NewElement("input")
	input.SetAttribute("type", "checkbox")
	input.SetBoolAttribute("checked")

	button := doc.NewElement("button")
	button.SetText("Go")
	button.AddEventListener("click", dom.Listener{Name: "submit", Handler: func(dom.Event) {}})

	root.AppendChild(input)
	root.AppendChild(button)
	return root
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	want := &Node{
		Tag:     "form",
		ID:      "login",
		Classes: []string{"card"},
		Children: []*Node{
			{
				Tag: "input",
				Attributes: []Attribute{
					{Name: "type", Value: ptr("checkbox")},
					{Name: "checked"},
				},
			},
			{Tag: "button", Text: "Go", Events: []string{"click:submit"}},
		},
	}
	if diff := cmp.Diff(want, Snapshot(sampleTree())); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_HTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatHTML, []*htmldom.Element{sampleTree()}))
	assert.Equal(t,
		`<form id="login" class="card"><input type="checkbox" checked=""/><button>Go</button></form>`+"\n",
		buf.String())
}

func TestWrite_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, []*htmldom.Element{sampleTree()}))

	var got []*Node
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	if diff := cmp.Diff(Snapshot(sampleTree()), got[0]); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, []*htmldom.Element{sampleTree()}))
	assert.Contains(t, buf.String(), "- tag: form\n")
	assert.Contains(t, buf.String(), "click:submit")

	var got []*Node
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "login", got[0].ID)
	require.Len(t, got[0].Children, 2)
	assert.Nil(t, got[0].Children[0].Attributes[1].Value)
}

func TestWrite_EmptyRoots(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatHTML, nil))
	assert.Empty(t, buf.String())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"html": FormatHTML, "JSON": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
