package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/depsgraph/internal/config"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/internal/testutil"
)

// SetupAppTest creates a new app instance with debug logging captured in
// the returned buffer. Output written by the app goes to outW.
func SetupAppTest(t *testing.T, outW *testutil.SafeBuffer, cfg *config.Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Log.Level = "debug"
	logBuffer := &testutil.SafeBuffer{}
	testApp, err := NewApp(context.Background(), outW, &AppConfig{Config: cfg, LogW: logBuffer}, modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = testApp.Close(context.Background())
		if os.Getenv("DEPSGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}

// HarnessResult holds the outcomes of an app-level test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *App
}

// RunFunc is the app entrypoint exercised by RunAppTest, e.g. a closure
// around App.Eval.
type RunFunc func(ctx context.Context, a *App, paths []string) error

// RunAppTest writes files into a temporary scene directory, builds an App
// with debug logging and the given modules (core modules when none), and
// calls run with the directory as the only path.
func RunAppTest(t *testing.T, files map[string]string, run RunFunc, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunAppTestWithContext(context.Background(), t, files, run, modules...)
}

// RunAppTestWithContext is RunAppTest with a caller-provided context.
func RunAppTestWithContext(ctx context.Context, t *testing.T, files map[string]string, run RunFunc, modules ...registry.Module) *HarnessResult {
	t.Helper()

	sceneDir := filepath.Join(t.TempDir(), "scene")
	require.NoError(t, os.Mkdir(sceneDir, 0o755))
	for name, content := range files {
		filePath := filepath.Join(sceneDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.Executor.Workers = 4
	out := &testutil.SafeBuffer{}
	testApp, logBuffer := SetupAppTest(t, out, cfg, modules...)

	runErr := run(ctx, testApp, []string{sceneDir})

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}

// AssertOperationRan checks the log output of a HarnessResult for the
// executor's completion line of the operation at addr.
func AssertOperationRan(t *testing.T, result *HarnessResult, addr string) {
	t.Helper()

	expected := fmt.Sprintf("operation=%s", addr)
	require.True(t,
		strings.Contains(result.LogOutput, expected),
		"expected log output for operation '%s' was not found in logs", addr,
	)
}

// AssertValue checks that the eval output of a HarnessResult printed the
// component snapshot line for key.kind containing fragment.
func AssertValue(t *testing.T, result *HarnessResult, key, kind, fragment string) {
	t.Helper()

	prefix := fmt.Sprintf("%s.%s = ", key, kind)
	for _, line := range strings.Split(result.Output, "\n") {
		if strings.HasPrefix(line, prefix) {
			require.Contains(t, line, fragment, "component %s.%s", key, kind)
			return
		}
	}
	require.Failf(t, "missing component output", "no line for %s.%s in output:\n%s", key, kind, result.Output)
}
