// Package assetcache implements the asset cache manager: a long-lived
// process, independent of the sync engine, that intercepts the application's
// read-only asset fetches and serves them from versioned disk caches.
//
// Two caches exist per version token: the app shell (the application's own
// static assets) and the vendor cache (a fixed allow-list of external
// library assets). Bumping the version token in the manifest makes the next
// activation evict every cache directory that doesn't match the two current
// names, so stale assets are never served indefinitely.
package assetcache

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest declares what gets precached and under which version token.
type Manifest struct {
	// Version is the token both cache names are derived from.
	Version string `yaml:"version"`

	// Origin is the application's own origin, e.g. "http://localhost:8080".
	// Requests targeting it are same-origin and served cache-first.
	Origin string `yaml:"origin"`

	// Shell lists the app-shell paths precached from Origin. The first
	// entry should be the root document; it doubles as the offline
	// fallback for HTML navigation requests.
	Shell []string `yaml:"shell"`

	// External is the fixed allow-list of external asset URLs, precached
	// and served cache-first.
	External []string `yaml:"external"`
}

// LoadManifest reads and validates a YAML manifest file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest invariants.
func (m Manifest) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if m.Origin == "" {
		return fmt.Errorf("origin is required")
	}
	u, err := url.Parse(m.Origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("origin %q must be an absolute URL", m.Origin)
	}
	if len(m.Shell) == 0 {
		return fmt.Errorf("shell must list at least the root document")
	}
	for _, p := range m.Shell {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("shell path %q must be absolute", p)
		}
	}
	for _, raw := range m.External {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("external URL %q must be absolute", raw)
		}
	}
	return nil
}

// ShellCacheName returns the versioned app-shell cache name.
func (m Manifest) ShellCacheName() string { return "shell-" + m.Version }

// VendorCacheName returns the versioned external-asset cache name.
func (m Manifest) VendorCacheName() string { return "vendor-" + m.Version }

// ShellRoot returns the absolute URL of the offline fallback document.
func (m Manifest) ShellRoot() string {
	return strings.TrimRight(m.Origin, "/") + m.Shell[0]
}

// AllowsExternal reports whether an absolute URL is on the external
// allow-list.
func (m Manifest) AllowsExternal(rawURL string) bool {
	for _, allowed := range m.External {
		if rawURL == allowed {
			return true
		}
	}
	return false
}

// SameOrigin reports whether an absolute URL targets the app's own origin.
func (m Manifest) SameOrigin(rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	origin, err := url.Parse(m.Origin)
	if err != nil {
		return false
	}
	return target.Scheme == origin.Scheme && target.Host == origin.Host
}
