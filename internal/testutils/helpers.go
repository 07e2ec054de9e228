// Package testutils builds throwaway projects for tests: a view directory
// of templates, a public directory with a Mix manifest and a matching
// configuration.
package testutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/vuehelper/internal/component"
	"github.com/conneroisu/vuehelper/internal/config"
	"github.com/conneroisu/vuehelper/internal/registry"
)

// CreateTempProject creates a temporary project with empty views and
// public directories and returns its root.
func CreateTempProject(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	for _, dir := range []string{"views", "public"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tempDir, dir), 0o755))
	}

	return tempDir
}

// ViewsDir returns the view directory of a project.
func ViewsDir(projectDir string) string {
	return filepath.Join(projectDir, "views")
}

// PublicDir returns the public directory of a project.
func PublicDir(projectDir string) string {
	return filepath.Join(projectDir, "public")
}

// CreateTestTemplate writes a template named name, which may contain
// slashes, below dir and returns its path.
func CreateTestTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name)+config.DefaultExtension)
	WriteFile(t, path, content)
	return path
}

// WriteManifest writes a Mix manifest mapping asset paths to versioned URLs.
func WriteManifest(t *testing.T, publicDir string, entries map[string]string) string {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)

	path := filepath.Join(publicDir, config.DefaultManifest)
	WriteFile(t, path, string(data))
	return path
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// CreateTestConfig returns a configuration reading templates and the
// manifest from projectDir.
func CreateTestConfig(projectDir string) *config.Config {
	return config.NewConfigBuilder().
		WithViews(ViewsDir(projectDir), config.DefaultExtension).
		WithMix(PublicDir(projectDir)).
		MustBuild()
}

// CreateTestRegistry returns a registry with a few sample components and
// their dependencies registered.
func CreateTestRegistry(cfg *config.Config, opts ...registry.Option) *registry.Registry {
	return registry.New(cfg, opts...).
		Register("Button", component.NewProps().Set("label", "Click me").Set("disabled", false), "js/button.js").
		Register("Card", component.NewProps().Set("title", "Test Card").Set("tags", []string{"a", "b"}), "js/card.js").
		Register("EmptyState", nil)
}

// WaitForFileChange waits for a file to be modified after originalModTime.
func WaitForFileChange(t *testing.T, filePath string, originalModTime time.Time, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		info, err := os.Stat(filePath)
		if err == nil && info.ModTime().After(originalModTime) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("File %s was not modified within %v", filePath, timeout)
}
