package testutil

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/nestml/internal/render"
	"github.com/stretchr/testify/require"
)

// AssertLogged checks that every substring appears in the run's log output.
func AssertLogged(t *testing.T, result *HarnessResult, substrings ...string) {
	t.Helper()
	for _, s := range substrings {
		require.True(t,
			strings.Contains(result.LogOutput, s),
			"expected %q in log output:\n%s", s, result.LogOutput,
		)
	}
}

// DecodeJSON decodes JSON-formatted output into render nodes.
func DecodeJSON(t *testing.T, result *HarnessResult) []*render.Node {
	t.Helper()
	var nodes []*render.Node
	require.NoError(t, json.Unmarshal([]byte(result.Output), &nodes), "output is not JSON:\n%s", result.Output)
	return nodes
}

// AssertTree compares JSON-formatted output against want.
func AssertTree(t *testing.T, result *HarnessResult, want []*render.Node) {
	t.Helper()
	if diff := cmp.Diff(want, DecodeJSON(t, result), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("compiled tree mismatch (-want +got):\n%s", diff)
	}
}
