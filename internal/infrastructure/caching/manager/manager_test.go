package manager

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
)

const testOrigin = "http://localhost:4321"

type fakeFetcher struct {
	mu      sync.Mutex
	entries map[string]*types.Entry
	fail    map[string]bool
	offline bool
	calls   map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		entries: make(map[string]*types.Entry),
		fail:    make(map[string]bool),
		calls:   make(map[string]int),
	}
}

func (f *fakeFetcher) serve(url string, status int, body string) {
	f.entries[url] = &types.Entry{
		Status:   status,
		Header:   http.Header{"Content-Type": []string{"text/html"}},
		Body:     []byte(body),
		URL:      url,
		StoredAt: time.Now().UTC(),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, _, url string, _ http.Header) (*types.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if f.offline || f.fail[url] {
		return nil, errors.New("connection refused")
	}
	entry, ok := f.entries[url]
	if !ok {
		return nil, fmt.Errorf("no response configured for %s", url)
	}
	return entry.Clone(), nil
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

type fakeNotifier struct {
	mu    sync.Mutex
	shown []types.Notification
}

func (n *fakeNotifier) Show(notification types.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown = append(n.shown, notification)
	return nil
}

func newTestManager(t *testing.T, fetcher *fakeFetcher) (*Manager, *stores.MemoryStore, *fakeNotifier) {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	store := stores.NewMemoryStore()
	notifier := &fakeNotifier{}
	mgr := NewManager(store, fetcher, notifier, Options{
		Version:      "portfolio-v1",
		Origin:       testOrigin,
		APIMarker:    "/api/",
		Assets:       []string{"/", "/index.html"},
		SyncQueueKey: "/api/contact/queue",
	}, logger)
	return mgr, store, notifier
}

func installAndActivate(t *testing.T, mgr *Manager, fetcher *fakeFetcher) {
	t.Helper()
	fetcher.serve(testOrigin+"/", http.StatusOK, "<html>root</html>")
	fetcher.serve(testOrigin+"/index.html", http.StatusOK, "<html>index</html>")
	if err := mgr.Install(context.Background(), "portfolio-v1"); err != nil {
		t.Fatalf("install failed: %v", err)
	}
	if err := mgr.Activate(context.Background(), "portfolio-v1"); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
}

func TestInstallFailsWhenAnyAssetFails(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)

	fetcher.serve(testOrigin+"/", http.StatusOK, "root")
	fetcher.fail[testOrigin+"/index.html"] = true

	if err := mgr.Install(context.Background(), "portfolio-v1"); err == nil {
		t.Fatal("expected install to fail when an asset cannot be fetched")
	}
	if mgr.Registered() {
		t.Error("failed install must not register the gateway")
	}
}

func TestInstallFailsOnNon200Asset(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)

	fetcher.serve(testOrigin+"/", http.StatusOK, "root")
	fetcher.serve(testOrigin+"/index.html", http.StatusNotFound, "missing")

	if err := mgr.Install(context.Background(), "portfolio-v1"); err == nil {
		t.Fatal("expected install to fail on a non-200 seed asset")
	}
}

func TestActivateSweepsStaleGenerations(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, store, _ := newTestManager(t, fetcher)

	for _, name := range []string{"portfolio-old1", "portfolio-old2"} {
		gen, err := store.Open(name)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		if err := gen.Put("GET "+testOrigin+"/stale", &types.Entry{Status: 200, URL: testOrigin + "/stale"}); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	installAndActivate(t, mgr, fetcher)

	names, err := store.Names()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 1 || names[0] != "portfolio-v1" {
		t.Errorf("expected only the live generation to survive, got %v", names)
	}
	if !mgr.Registered() {
		t.Error("activation must register the gateway")
	}
}

func TestHandleFetchUnregisteredIsPassThrough(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)

	_, handled, err := mgr.HandleFetch(context.Background(), "GET", testOrigin+"/index.html", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handled {
		t.Error("unregistered gateway must not handle requests")
	}
}

func TestHandleFetchPassThroughForNonGet(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)
	installAndActivate(t, mgr, fetcher)

	_, handled, err := mgr.HandleFetch(context.Background(), "POST", testOrigin+"/api/contact", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handled {
		t.Error("non-GET requests must pass through")
	}
}

func TestCacheFirstServesFromCacheWithoutNetwork(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)
	installAndActivate(t, mgr, fetcher)

	url := testOrigin + "/index.html"
	before := fetcher.callCount(url)

	entry, handled, err := mgr.HandleFetch(context.Background(), "GET", url, nil)
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if string(entry.Body) != "<html>index</html>" {
		t.Errorf("expected seeded body, got %q", entry.Body)
	}
	if fetcher.callCount(url) != before {
		t.Error("cache hit must not touch the network")
	}
}

func TestCacheFirstMissFetchesAndCaches(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)
	installAndActivate(t, mgr, fetcher)

	url := testOrigin + "/about.html"
	fetcher.serve(url, http.StatusOK, "about page")

	entry, handled, err := mgr.HandleFetch(context.Background(), "GET", url, nil)
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if string(entry.Body) != "about page" {
		t.Errorf("expected live body, got %q", entry.Body)
	}
	mgr.WaitPending()

	// Second request must be served from cache.
	if _, _, err := mgr.HandleFetch(context.Background(), "GET", url, nil); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if got := fetcher.callCount(url); got != 1 {
		t.Errorf("expected exactly one network fetch, got %d", got)
	}
}

func TestCacheFirstDoesNotCacheErrorResponses(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)
	installAndActivate(t, mgr, fetcher)

	url := testOrigin + "/broken.html"
	fetcher.serve(url, http.StatusInternalServerError, "boom")

	for i := 0; i < 2; i++ {
		entry, _, err := mgr.HandleFetch(context.Background(), "GET", url, nil)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if entry.Status != http.StatusInternalServerError {
			t.Fatalf("expected passthrough of error status, got %d", entry.Status)
		}
	}
	mgr.WaitPending()

	if got := fetcher.callCount(url); got != 2 {
		t.Errorf("error responses must not be cached; network calls = %d, want 2", got)
	}
}

func TestCacheFirstDoesNotCacheCrossOrigin(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)
	installAndActivate(t, mgr, fetcher)

	url := "https://cdn.example.com/lib.js"
	fetcher.serve(url, http.StatusOK, "lib")

	for i := 0; i < 2; i++ {
		if _, _, err := mgr.HandleFetch(context.Background(), "GET", url, nil); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	mgr.WaitPending()

	if got := fetcher.callCount(url); got != 2 {
		t.Errorf("cross-origin responses must not be cached; network calls = %d, want 2", got)
	}
}

func TestNetworkFirstPrefersLiveResponse(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)
	installAndActivate(t, mgr, fetcher)

	url := testOrigin + "/api/portfolio"
	fetcher.serve(url, http.StatusOK, `{"v":1}`)

	entry, handled, err := mgr.HandleFetch(context.Background(), "GET", url, nil)
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if string(entry.Body) != `{"v":1}` {
		t.Errorf("expected live body, got %q", entry.Body)
	}
	mgr.WaitPending()

	// Now go offline: the cached copy serves the fallback.
	fetcher.offline = true
	entry, _, err = mgr.HandleFetch(context.Background(), "GET", url, nil)
	if err != nil {
		t.Fatalf("offline fetch: %v", err)
	}
	if entry == nil || string(entry.Body) != `{"v":1}` {
		t.Errorf("expected cached fallback, got %+v", entry)
	}
}

func TestNetworkFirstOfflineWithoutCacheReturnsNil(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)
	installAndActivate(t, mgr, fetcher)

	fetcher.offline = true
	entry, handled, err := mgr.HandleFetch(context.Background(), "GET", testOrigin+"/api/never-seen", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handled || entry != nil {
		t.Errorf("expected handled nil entry, got handled=%v entry=%+v", handled, entry)
	}
}

func TestHandlePushAppliesDefaults(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, notifier := newTestManager(t, fetcher)

	if err := mgr.HandlePush([]byte(`{}`)); err != nil {
		t.Fatalf("push: %v", err)
	}
	// An empty body means all defaults, not an error.
	if err := mgr.HandlePush(nil); err != nil {
		t.Fatalf("empty push: %v", err)
	}

	if len(notifier.shown) != 2 {
		t.Fatalf("expected two notifications, got %d", len(notifier.shown))
	}
	for _, n := range notifier.shown {
		if n.Title != "New Notification" || n.Body != "You have a new notification" {
			t.Errorf("unexpected defaults: %+v", n)
		}
		if n.Icon != "/logo192.png" || n.Data.URL != "/" {
			t.Errorf("unexpected icon/url defaults: %+v", n)
		}
	}
}

func TestHandlePushRejectsInvalidPayload(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)

	if err := mgr.HandlePush([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestHandleNotificationClick(t *testing.T) {
	fetcher := newFakeFetcher()
	mgr, _, _ := newTestManager(t, fetcher)

	if got := mgr.HandleNotificationClick(types.NotificationData{URL: "/projects"}); got != "/projects" {
		t.Errorf("click target = %q, want /projects", got)
	}
}
