// Package assets resolves JavaScript dependencies through a Laravel Mix
// manifest, the way the mix() helper does.
//
// A dependency path is looked up in {public}/mix-manifest.json and replaced
// by its versioned URL. While the Mix dev server runs it writes its URL to
// {public}/hot, in which case paths are served from the dev server and the
// manifest is not read at all.
package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/conneroisu/vuehelper/internal/config"
	"github.com/conneroisu/vuehelper/internal/errors"
)

// Mix resolves dependency paths through a Mix manifest. The manifest is
// read on first use and cached until Reload is called.
type Mix struct {
	publicPath   string
	manifestName string
	hotName      string

	mutex    sync.RWMutex
	manifest map[string]string
}

// NewMix creates a resolver for the given assets configuration.
func NewMix(cfg config.AssetsConfig) *Mix {
	return &Mix{
		publicPath:   cfg.PublicPath,
		manifestName: cfg.Manifest,
		hotName:      cfg.HotFile,
	}
}

// ManifestPath returns the location of the manifest file.
func (m *Mix) ManifestPath() string {
	return filepath.Join(m.publicPath, m.manifestName)
}

// HotPath returns the location of the dev server hot file.
func (m *Mix) HotPath() string {
	return filepath.Join(m.publicPath, m.hotName)
}

// Resolve returns the URL for path. Paths are normalised to start with a
// slash before lookup, so "js/app.js" and "/js/app.js" are equivalent.
func (m *Mix) Resolve(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if url, ok, err := m.hotURL(); err != nil {
		return "", err
	} else if ok {
		return url + path, nil
	}

	manifest, err := m.load()
	if err != nil {
		return "", err
	}

	resolved, ok := manifest[path]
	if !ok {
		return "", errors.AssetNotFound(path)
	}
	return resolved, nil
}

// hotURL reports the dev server URL when the hot file exists. Absolute
// URLs are made scheme-relative; without a URL the default dev server
// address is used.
func (m *Mix) hotURL() (string, bool, error) {
	data, err := os.ReadFile(m.HotPath())
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading hot file: %w", err)
	}

	url := strings.TrimRight(strings.TrimSpace(string(data)), "/")
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return url[strings.Index(url, ":")+1:], true, nil
	case url == "":
		return "//localhost:8080", true, nil
	default:
		return url, true, nil
	}
}

func (m *Mix) load() (map[string]string, error) {
	m.mutex.RLock()
	manifest := m.manifest
	m.mutex.RUnlock()
	if manifest != nil {
		return manifest, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.manifest != nil {
		return m.manifest, nil
	}

	manifest, err := readManifest(m.ManifestPath())
	if err != nil {
		return nil, err
	}
	m.manifest = manifest
	return manifest, nil
}

// Reload drops the cached manifest and reads it again.
func (m *Mix) Reload() error {
	m.mutex.Lock()
	m.manifest = nil
	m.mutex.Unlock()

	_, err := m.load()
	return err
}

func readManifest(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.ManifestMissing(path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("reading Mix manifest: %w", err)
	}

	var manifest map[string]string
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing Mix manifest %s: %w", path, err)
	}
	if manifest == nil {
		manifest = map[string]string{}
	}
	return manifest, nil
}
