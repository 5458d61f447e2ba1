// Package testutil provides the shared harness for dispatch integration
// tests: it writes manifest files to a temporary directory, boots a full
// App around them, and runs one argument vector through it.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/weft/internal/app"
	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/hclmanifest"
	"github.com/vk/weft/internal/registry"
	"github.com/vk/weft/internal/yamlmanifest"
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

// HarnessResult holds the outcomes of a dispatch test run.
type HarnessResult struct {
	// Output is everything the app wrote: logs and help pages alike.
	Output string

	// Result is the terminal handler's return value, nil when dispatch
	// failed or never reached a handler.
	Result any

	Err error
	App *app.App
}

// RunDispatchTest writes the given manifest files to a temporary
// directory, boots an App with the provided modules, and dispatches argv
// through it using a default background context.
func RunDispatchTest(t *testing.T, files map[string]string, argv []string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunDispatchTestWithContext(context.Background(), t, files, argv, modules...)
}

// RunDispatchTestWithContext is RunDispatchTest with a caller-provided
// context.
func RunDispatchTestWithContext(ctx context.Context, t *testing.T, files map[string]string, argv []string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", ".tmp-dispatch-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	loader := loaderForFiles(files)
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig, err := app.NewConfig(app.Config{
		Program:      "weft",
		ManifestPath: tmpDir,
		LogFormat:    "text",
		LogLevel:     "debug",
	})
	require.NoError(t, err)

	outBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(outBuffer, appConfig, loader, modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output: outBuffer.String(),
			Err:    fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	res, runErr := testApp.Run(ctx, argv)
	return &HarnessResult{
		Output: outBuffer.String(),
		Result: res,
		Err:    runErr,
		App:    testApp,
	}
}

// loaderForFiles picks the manifest loader from the file extensions the
// test supplies. Mixed-format file sets are not supported.
func loaderForFiles(files map[string]string) config.Loader {
	for name := range files {
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".yaml" || ext == ".yml" {
			return yamlmanifest.NewLoader()
		}
	}
	return hclmanifest.NewLoader()
}
