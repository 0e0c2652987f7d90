// Package manager provides the cache gateway lifecycle and per-request
// strategy dispatch: install seeds a generation from the asset origin,
// activate sweeps stale generations, and fetch handling applies the
// network-first or cache-first strategy decided for each request.
package manager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Fallback notification strings applied when a push payload omits fields.
const (
	defaultNotificationTitle = "New Notification"
	defaultNotificationBody  = "You have a new notification"
	defaultNotificationIcon  = "/logo192.png"
	defaultNotificationURL   = "/"
)

// SyncTagForm is the background sync tag registered for deferred form
// submissions.
const SyncTagForm = "sync-form"

// Manager owns the cache generations and applies the caching strategies.
// Exactly one generation is live at a time; activation sweeps all others.
type Manager struct {
	mu         sync.RWMutex
	version    string
	registered bool

	store    interfaces.Store
	fetcher  interfaces.Fetcher
	notifier interfaces.NotificationSurface
	logger   *logging.ChanneledLogger

	origin       string
	originHost   string
	apiMarker    string
	assets       []string
	syncQueueKey string

	group  singleflight.Group
	stores sync.WaitGroup
}

// Options carries the gateway configuration for one manager instance.
type Options struct {
	Version      string
	Origin       string
	APIMarker    string
	Assets       []string
	SyncQueueKey string
}

// NewManager creates a cache gateway manager. The manager starts
// unregistered; Install plus Activate bring a generation live.
func NewManager(store interfaces.Store, fetcher interfaces.Fetcher, notifier interfaces.NotificationSurface, opts Options, logger *logging.ChanneledLogger) *Manager {
	originHost := ""
	if u, err := url.Parse(opts.Origin); err == nil {
		originHost = u.Host
	}
	return &Manager{
		version:      opts.Version,
		store:        store,
		fetcher:      fetcher,
		notifier:     notifier,
		logger:       logger,
		origin:       strings.TrimRight(opts.Origin, "/"),
		originHost:   originHost,
		apiMarker:    opts.APIMarker,
		assets:       opts.Assets,
		syncQueueKey: opts.SyncQueueKey,
	}
}

// Version returns the current live generation name.
func (m *Manager) Version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Registered reports whether the gateway is serving cached responses.
func (m *Manager) Registered() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registered
}

// Unregister disables cache handling; requests pass through untouched until
// a new install/activate cycle completes.
func (m *Manager) Unregister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered = false
	m.logger.Cache().Info("Cache gateway unregistered")
}

// Install seeds the named generation with the fixed asset list fetched from
// the origin. Any unfetchable asset fails the install so a broken asset list
// surfaces immediately; the previous generation remains live.
func (m *Manager) Install(ctx context.Context, version string) error {
	gen, err := m.store.Open(version)
	if err != nil {
		return fmt.Errorf("failed to open cache generation %s: %w", version, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, asset := range m.assets {
		asset := asset
		g.Go(func() error {
			assetURL := m.origin + asset
			entry, err := m.fetcher.Fetch(ctx, http.MethodGet, assetURL, nil)
			if err != nil {
				return fmt.Errorf("failed to seed asset %s: %w", asset, err)
			}
			if entry.Status != http.StatusOK {
				return fmt.Errorf("failed to seed asset %s: status %d", asset, entry.Status)
			}
			return gen.Put(types.EntryKey(http.MethodGet, assetURL), entry)
		})
	}

	if err := g.Wait(); err != nil {
		m.logger.Cache().Error("Cache install failed", "version", version, "error", err.Error())
		return fmt.Errorf("install of cache generation %s failed: %w", version, err)
	}

	m.logger.Cache().Info("Cache generation installed", "version", version, "assets", len(m.assets))
	return nil
}

// Activate makes the named generation live and deletes every generation
// whose name differs from it. This whole-generation sweep is the only
// eviction policy at the generation level.
func (m *Manager) Activate(ctx context.Context, version string) error {
	names, err := m.store.Names()
	if err != nil {
		return fmt.Errorf("failed to enumerate cache generations: %w", err)
	}

	for _, name := range names {
		if name == version {
			continue
		}
		if err := m.store.Delete(name); err != nil {
			return fmt.Errorf("failed to evict stale cache generation %s: %w", name, err)
		}
		m.logger.Cache().Info("Evicted stale cache generation", "name", name)
	}

	m.mu.Lock()
	m.version = version
	m.registered = true
	m.mu.Unlock()

	m.logger.Cache().Info("Cache generation activated", "version", version)
	return nil
}

// HandleFetch applies the decided strategy to one intercepted request. A
// pass-through decision returns a nil entry with handled=false so the caller
// can let the request proceed exactly as if no interception existed.
func (m *Manager) HandleFetch(ctx context.Context, method, rawURL string, header http.Header) (*types.Entry, bool, error) {
	action := Decide(method, rawURL, m.apiMarker)
	if action == types.ActionPassThrough || !m.Registered() {
		return nil, false, nil
	}

	switch action {
	case types.ActionNetworkFirst:
		entry, err := m.networkFirst(ctx, method, rawURL, header)
		return entry, true, err
	default:
		entry, err := m.cacheFirst(ctx, method, rawURL, header)
		return entry, true, err
	}
}

// networkFirst attempts the origin first, caching successful responses
// fire-and-forget, and falls back to the cache when the network fails. The
// fallback may find nothing; that absence is returned as a nil entry.
func (m *Manager) networkFirst(ctx context.Context, method, rawURL string, header http.Header) (*types.Entry, error) {
	key := types.EntryKey(method, rawURL)

	entry, err := m.fetcher.Fetch(ctx, method, rawURL, header)
	if err != nil {
		m.logger.Cache().Debug("Network-first fetch failed, falling back to cache", "url", rawURL, "error", err.Error())
		cached, found, matchErr := m.matchCurrent(key)
		if matchErr != nil || !found {
			return nil, nil
		}
		return cached, nil
	}

	if entry.Status == http.StatusOK {
		m.storeAsync(key, entry)
	}
	return entry, nil
}

// cacheFirst serves a cached snapshot when present without touching the
// network; otherwise it fetches from the origin (deduplicating concurrent
// fetches for the same key) and caches qualifying responses.
func (m *Manager) cacheFirst(ctx context.Context, method, rawURL string, header http.Header) (*types.Entry, error) {
	key := types.EntryKey(method, rawURL)

	cached, found, err := m.matchCurrent(key)
	if err == nil && found {
		return cached, nil
	}

	result, err, _ := m.group.Do(key, func() (any, error) {
		return m.fetcher.Fetch(ctx, method, rawURL, header)
	})
	if err != nil {
		return nil, fmt.Errorf("cache-first fetch failed for %s: %w", rawURL, err)
	}

	entry := result.(*types.Entry)
	if !m.cacheable(entry) {
		return entry, nil
	}

	m.storeAsync(key, entry)
	return entry, nil
}

// cacheable filters out error pages, redirects and cross-origin responses.
func (m *Manager) cacheable(entry *types.Entry) bool {
	if entry == nil || entry.Status != http.StatusOK {
		return false
	}
	u, err := url.Parse(entry.URL)
	if err != nil {
		return false
	}
	return u.Host == m.originHost
}

// storeAsync writes the entry to the live generation without blocking the
// response path. Store failures are swallowed after logging: caching is an
// optimization, never a functional dependency.
func (m *Manager) storeAsync(key string, entry *types.Entry) {
	snapshot := entry.Clone()
	m.stores.Add(1)
	go func() {
		defer m.stores.Done()
		gen, err := m.store.Open(m.Version())
		if err != nil {
			m.logger.Cache().Warn("Cache store open failed", "key", key, "error", err.Error())
			return
		}
		if err := gen.Put(key, snapshot); err != nil {
			m.logger.Cache().Warn("Cache store failed", "key", key, "error", err.Error())
		}
	}()
}

// WaitPending blocks until queued background stores complete. Used at
// shutdown and by tests needing deterministic cache contents.
func (m *Manager) WaitPending() {
	m.stores.Wait()
}

func (m *Manager) matchCurrent(key string) (*types.Entry, bool, error) {
	gen, err := m.store.Open(m.Version())
	if err != nil {
		return nil, false, err
	}
	return gen.Match(key)
}

// HandleSync fires when connectivity is restored for a registered tag. The
// queued-request marker is looked up in the live generation; replaying the
// queued submissions is the hook point.
func (m *Manager) HandleSync(ctx context.Context, tag string) error {
	if tag != SyncTagForm {
		return nil
	}
	key := types.EntryKey(http.MethodGet, m.origin+m.syncQueueKey)
	_, found, err := m.matchCurrent(key)
	if err != nil {
		return fmt.Errorf("sync queue lookup failed: %w", err)
	}
	if found {
		// TODO: replay queued contact submissions once the queue format is settled.
		m.logger.Cache().Info("Background sync found queued requests", "tag", tag)
	}
	return nil
}

// HandlePush turns a JSON push payload into a displayed notification,
// applying fallback strings for absent fields and attaching the target URL
// (defaulting to the site root) as notification metadata. An empty payload
// produces an all-defaults notification.
func (m *Manager) HandlePush(payload []byte) error {
	var push types.PushPayload
	if trimmed := bytes.TrimSpace(payload); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &push); err != nil {
			return fmt.Errorf("invalid push payload: %w", err)
		}
	}

	notification := types.Notification{
		Title: push.Title,
		Body:  push.Body,
		Icon:  push.Icon,
		Badge: defaultNotificationIcon,
		Data:  types.NotificationData{URL: push.URL},
	}
	if notification.Title == "" {
		notification.Title = defaultNotificationTitle
	}
	if notification.Body == "" {
		notification.Body = defaultNotificationBody
	}
	if notification.Icon == "" {
		notification.Icon = defaultNotificationIcon
	}
	if notification.Data.URL == "" {
		notification.Data.URL = defaultNotificationURL
	}

	if err := m.notifier.Show(notification); err != nil {
		return fmt.Errorf("failed to show notification: %w", err)
	}
	return nil
}

// HandleNotificationClick resolves the click target for a dismissed
// notification; an empty string means there is nothing to open.
func (m *Manager) HandleNotificationClick(data types.NotificationData) string {
	return data.URL
}
