package assetcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// fetchTimeout bounds one upstream fetch.
const fetchTimeout = 30 * time.Second

// Manager serves intercepted requests from the two versioned caches or the
// network, applying cache-first strategy to same-origin and allow-listed
// assets and network-first to everything else. Non-GET requests pass through
// untouched.
//
// The manager runs in its own process with no shared state with the sync
// engine; the only coupling is the interception of HTTP requests.
type Manager struct {
	manifest Manifest
	shell    *Cache
	vendor   *Cache
	client   *http.Client
	logger   *slog.Logger
}

// NewManager opens the two current versioned caches under root.
func NewManager(manifest Manifest, root string, logger *slog.Logger) (*Manager, error) {
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	shell, err := OpenCache(root, manifest.ShellCacheName())
	if err != nil {
		return nil, err
	}
	vendor, err := OpenCache(root, manifest.VendorCacheName())
	if err != nil {
		return nil, err
	}
	return &Manager{
		manifest: manifest,
		shell:    shell,
		vendor:   vendor,
		client:   &http.Client{Timeout: fetchTimeout},
		logger:   logger,
	}, nil
}

// Install populates both caches from the manifest: every shell path from the
// app origin and every allow-listed external URL. Failure to cache any
// listed item fails the install.
func (m *Manager) Install(ctx context.Context) error {
	origin := strings.TrimRight(m.manifest.Origin, "/")
	for _, path := range m.manifest.Shell {
		if err := m.precache(ctx, m.shell, origin+path); err != nil {
			return fmt.Errorf("install: %w", err)
		}
	}
	for _, rawURL := range m.manifest.External {
		if err := m.precache(ctx, m.vendor, rawURL); err != nil {
			return fmt.Errorf("install: %w", err)
		}
	}
	m.logger.Info("install complete",
		"shell", len(m.manifest.Shell),
		"external", len(m.manifest.External),
		"version", m.manifest.Version)
	return nil
}

// Activate evicts every cache directory that does not match the two current
// versioned names. Returns the evicted cache names.
func (m *Manager) Activate(root string) ([]string, error) {
	evicted, err := EvictStale(root, m.shell.Name(), m.vendor.Name())
	if err != nil {
		return evicted, err
	}
	for _, name := range evicted {
		m.logger.Info("evicted stale cache", "name", name)
	}
	return evicted, nil
}

// ServeHTTP routes one intercepted request. The manager accepts both
// proxy-form requests (absolute target URL) and origin-form requests, which
// it resolves against the app origin.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := m.targetURL(r)

	if r.Method != http.MethodGet {
		m.passThrough(w, r, target)
		return
	}

	if m.manifest.SameOrigin(target) || m.manifest.AllowsExternal(target) {
		m.cacheFirst(w, r, target)
		return
	}
	m.networkFirst(w, r, target)
}

// targetURL resolves the request to an absolute URL.
func (m *Manager) targetURL(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}
	u := strings.TrimRight(m.manifest.Origin, "/") + r.URL.Path
	if r.URL.RawQuery != "" {
		u += "?" + r.URL.RawQuery
	}
	return u
}

// cacheFirst serves the cached copy if present, otherwise fetches and caches
// the response. On total failure an HTML-accepting request falls back to the
// cached shell root document.
func (m *Manager) cacheFirst(w http.ResponseWriter, r *http.Request, target string) {
	if entry, ok := m.lookup(target); ok {
		m.logger.Debug("serving from cache", "url", target)
		writeEntry(w, entry)
		return
	}

	status, header, body, err := m.fetch(r.Context(), target)
	if err != nil {
		m.logger.Warn("cache-first fetch failed", "url", target, "error", err)
		if acceptsHTML(r) {
			if entry, ok := m.lookup(m.manifest.ShellRoot()); ok {
				writeEntry(w, entry)
				return
			}
		}
		http.Error(w, "offline and not cached", http.StatusBadGateway)
		return
	}

	if status >= 200 && status < 300 {
		m.store(target, status, header, body)
	}
	writeResponse(w, status, header, body)
}

// networkFirst tries the network, caching successful responses, and falls
// back to any cached copy on failure.
func (m *Manager) networkFirst(w http.ResponseWriter, r *http.Request, target string) {
	status, header, body, err := m.fetch(r.Context(), target)
	if err == nil {
		if status >= 200 && status < 300 {
			m.store(target, status, header, body)
		}
		writeResponse(w, status, header, body)
		return
	}

	m.logger.Warn("network-first fetch failed, trying cache", "url", target, "error", err)
	if entry, ok := m.lookup(target); ok {
		writeEntry(w, entry)
		return
	}
	http.Error(w, "offline and not cached", http.StatusBadGateway)
}

// passThrough forwards a non-GET request untouched and relays the response.
// Nothing is ever cached on this path.
func (m *Manager) passThrough(w http.ResponseWriter, r *http.Request, target string) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	req.Header = r.Header.Clone()

	resp, err := m.client.Do(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for name, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

// lookup checks both caches, shell first.
func (m *Manager) lookup(target string) (Entry, bool) {
	if entry, ok := m.shell.Get(target); ok {
		return entry, true
	}
	return m.vendor.Get(target)
}

// store routes a response copy to the cache owning the URL's class.
func (m *Manager) store(target string, status int, header http.Header, body []byte) {
	cache := m.vendor
	if m.manifest.SameOrigin(target) {
		cache = m.shell
	}
	if err := cache.Put(target, status, header, body); err != nil {
		m.logger.Warn("cache store failed", "url", target, "error", err)
	}
}

// precache fetches one manifest item into a cache; any failure, including a
// non-2xx status, is an install failure.
func (m *Manager) precache(ctx context.Context, cache *Cache, rawURL string) error {
	status, header, body, err := m.fetch(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("precache %s: %w", rawURL, err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("precache %s: status %d", rawURL, status)
	}
	return cache.Put(rawURL, status, header, body)
}

func (m *Manager) fetch(ctx context.Context, rawURL string) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, resp.Header, body, nil
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeEntry(w http.ResponseWriter, entry Entry) {
	for name, v := range entry.Header {
		w.Header().Set(name, v)
	}
	w.WriteHeader(entry.Status)
	w.Write(entry.Body)
}

func writeResponse(w http.ResponseWriter, status int, header http.Header, body []byte) {
	for _, name := range replayedHeaders {
		if v := header.Get(name); v != "" {
			w.Header().Set(name, v)
		}
	}
	w.WriteHeader(status)
	w.Write(body)
}
