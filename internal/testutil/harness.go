package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/nestml/internal/app"
	"github.com/specialistvlad/nestml/internal/hcl"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	Dir       string
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, cfg)
}

// RunIntegrationTestWithContext writes files into a temporary directory and
// runs the app against them. Relative TemplatePath and ConfigPaths in cfg are
// resolved against that directory; "-" reads the "stdin" entry of files.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	tmpDir := t.TempDir()

	// 2. Write all files. Paths such as "conf.d/events.hcl" create their
	//    subdirectories within the root.
	stdin := ""
	for name, content := range files {
		if name == "stdin" {
			stdin = content
			continue
		}
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	// 3. Point the config at the temporary directory.
	if cfg.TemplatePath != "" && cfg.TemplatePath != app.StdinPath && !filepath.IsAbs(cfg.TemplatePath) {
		cfg.TemplatePath = filepath.Join(tmpDir, cfg.TemplatePath)
	}
	configPaths := make([]string, 0, len(cfg.ConfigPaths))
	for _, p := range cfg.ConfigPaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(tmpDir, p)
		}
		configPaths = append(configPaths, p)
	}
	cfg.ConfigPaths = configPaths
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	result := &HarnessResult{Dir: tmpDir}

	appConfig, err := app.NewConfig(cfg)
	if err == nil {
		var testApp *app.App
		testApp, err = app.NewApp(strings.NewReader(stdin), out, logs, appConfig, hcl.NewLoader())
		if err == nil {
			err = testApp.Run(ctx)
		}
	}

	if os.Getenv("NESTML_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	result.Output = out.String()
	result.LogOutput = logs.String()
	result.Err = err
	return result
}
