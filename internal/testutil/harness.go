// Package testutil provides shared helpers for exercising the pipeline
// from HCL source files in tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docfold/docfold/internal/app"
	"github.com/docfold/docfold/internal/assemble"
	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/ctxlog"
	"github.com/docfold/docfold/internal/hcl_adapter"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
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

// WriteConfigFiles writes the given filename-to-content map into a fresh
// temporary directory and returns its path. Relative paths in the map may
// contain subdirectories.
func WriteConfigFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
	return tmpDir
}

// LoadModel runs the HCL loader over the given files and returns the
// resulting model or the load error.
func LoadModel(t *testing.T, files map[string]string) (*config.Model, error) {
	t.Helper()

	dir := WriteConfigFiles(t, files)
	ctx := ctxlog.WithLogger(context.Background(), testLogger())
	return hcl_adapter.NewLoader().Load(ctx, dir)
}

// HarnessResult holds the outcomes of a full pipeline test run.
type HarnessResult struct {
	LogOutput string
	Manual    string
	Err       error
	Result    *assemble.Result
	App       *app.App
}

// RunPipelineTest writes the given HCL files, runs the whole pipeline
// (load, compose, scrub, render) against them, and returns everything the
// run produced. Startup panics from the app are converted into errors.
func RunPipelineTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	dir := WriteConfigFiles(t, files)
	outDir := t.TempDir()
	manualPath := filepath.Join(outDir, "manual.md")

	logBuffer := &SafeBuffer{}
	appConfig := &app.Config{
		ConfigPath: dir,
		OutPath:    manualPath,
		LogLevel:   "debug",
		LogFormat:  "text",
	}

	result := &HarnessResult{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("startup failed: %v", r)
			}
		}()
		result.App = app.NewApp(logBuffer, appConfig, hcl_adapter.NewLoader())
		result.Result, result.Err = result.App.Run(context.Background())
	}()

	result.LogOutput = logBuffer.String()
	if manual, err := os.ReadFile(manualPath); err == nil {
		result.Manual = string(manual)
	}
	return result
}
