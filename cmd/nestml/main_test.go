package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/nestml/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CompilesTemplate(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	tpl := filepath.Join(dir, "page.nml")
	require.NoError(t, os.WriteFile(tpl, []byte("section#intro\n>h1(Hello)\n>p.lead(World)"), 0o600))
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), strings.NewReader(""), out, logs, []string{"-log-format", "text", tpl})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, `<section id="intro"><h1>Hello</h1><p class="lead">World</p></section>`+"\n", out.String())
}

func TestRun_Stdin(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), strings.NewReader("em(x)"), out, &bytes.Buffer{}, []string{"-format", "yaml", "-"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "tag: em")
	assert.Contains(t, out.String(), "text: x")
}

func TestRun_ConfigLoadError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An HCL file with a syntax error fails while the app is being built.
	dir := t.TempDir()
	conf := filepath.Join(dir, "nestml.hcl")
	require.NoError(t, os.WriteFile(conf, []byte("event \"x\" {\n"), 0o600))

	// --- Act ---
	err := run(context.Background(), strings.NewReader("div"), &bytes.Buffer{}, &bytes.Buffer{}, []string{"-c", conf, "-"})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}
	err := run(context.Background(), strings.NewReader(""), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), strings.NewReader(""), out, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
