package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
)

const registrarOrigin = "http://localhost:4321"

type stubFetcher struct {
	mu      sync.Mutex
	entries map[string]*types.Entry
	offline bool
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{entries: make(map[string]*types.Entry)}
}

func (f *stubFetcher) serve(url string, status int, contentType, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[url] = &types.Entry{
		Status:   status,
		Header:   http.Header{"Content-Type": []string{contentType}},
		Body:     []byte(body),
		URL:      url,
		StoredAt: time.Now().UTC(),
	}
}

func (f *stubFetcher) Fetch(_ context.Context, _, url string, _ http.Header) (*types.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return nil, errors.New("connection refused")
	}
	entry, ok := f.entries[url]
	if !ok {
		return nil, errors.New("no response configured for " + url)
	}
	return entry.Clone(), nil
}

type discardNotifier struct{}

func (discardNotifier) Show(types.Notification) error { return nil }

func newRegistrarFixture(t *testing.T) (*RegistrarService, *manager.Manager, *stubFetcher) {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	fetcher := newStubFetcher()
	mgr := manager.NewManager(stores.NewMemoryStore(), fetcher, discardNotifier{}, manager.Options{
		Version:   "portfolio-v1",
		Origin:    registrarOrigin,
		APIMarker: "/api/",
		Assets:    []string{"/"},
	}, logger)

	registrar := NewRegistrarService(mgr, fetcher,
		registrarOrigin, "/site.webmanifest", "portfolio-v1",
		time.Hour, "", logger)

	fetcher.serve(registrarOrigin+"/", http.StatusOK, "text/html", "<html>root</html>")
	return registrar, mgr, fetcher
}

func TestRegisterInstallsManifestDerivedGeneration(t *testing.T) {
	registrar, mgr, fetcher := newRegistrarFixture(t)
	fetcher.serve(registrarOrigin+"/site.webmanifest", http.StatusOK, "application/manifest+json", `{"name":"site"}`)

	if err := registrar.Register(context.Background()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !mgr.Registered() {
		t.Fatal("expected gateway to be registered")
	}
	if !strings.HasPrefix(mgr.Version(), "portfolio-") || mgr.Version() == "portfolio-v1" {
		t.Errorf("expected manifest-derived version, got %q", mgr.Version())
	}

	// An unchanged manifest is a no-op.
	version := mgr.Version()
	if err := registrar.Register(context.Background()); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if mgr.Version() != version {
		t.Errorf("version changed without manifest change: %q -> %q", version, mgr.Version())
	}
}

func TestRegisterRollsForwardOnManifestChange(t *testing.T) {
	registrar, mgr, fetcher := newRegistrarFixture(t)
	fetcher.serve(registrarOrigin+"/site.webmanifest", http.StatusOK, "application/manifest+json", `{"v":1}`)

	if err := registrar.Register(context.Background()); err != nil {
		t.Fatalf("register: %v", err)
	}
	first := mgr.Version()

	fetcher.serve(registrarOrigin+"/site.webmanifest", http.StatusOK, "application/manifest+json", `{"v":2}`)
	if err := registrar.Register(context.Background()); err != nil {
		t.Fatalf("update register: %v", err)
	}
	if mgr.Version() == first {
		t.Error("expected a new generation after manifest change")
	}
}

func TestRegisterUnregistersOnInvalidManifest(t *testing.T) {
	registrar, mgr, fetcher := newRegistrarFixture(t)
	fetcher.serve(registrarOrigin+"/site.webmanifest", http.StatusOK, "application/manifest+json", `{"v":1}`)

	if err := registrar.Register(context.Background()); err != nil {
		t.Fatalf("register: %v", err)
	}

	fetcher.serve(registrarOrigin+"/site.webmanifest", http.StatusNotFound, "text/html", "not found")
	if err := registrar.Register(context.Background()); err != nil {
		t.Fatalf("probe register: %v", err)
	}
	if mgr.Registered() {
		t.Error("404 manifest must unregister the gateway")
	}

	// Wrong content type counts as invalid too.
	fetcher.serve(registrarOrigin+"/site.webmanifest", http.StatusOK, "text/html", "<html>spa fallback</html>")
	registrar.Register(context.Background())
	if mgr.Registered() {
		t.Error("non-manifest content type must unregister the gateway")
	}
}

func TestRegisterOfflineKeepsExistingRegistration(t *testing.T) {
	registrar, mgr, fetcher := newRegistrarFixture(t)
	fetcher.serve(registrarOrigin+"/site.webmanifest", http.StatusOK, "application/manifest+json", `{"v":1}`)

	if err := registrar.Register(context.Background()); err != nil {
		t.Fatalf("register: %v", err)
	}
	version := mgr.Version()

	// Unreachable is not invalid: the live generation stays registered.
	fetcher.offline = true
	if err := registrar.Register(context.Background()); err != nil {
		t.Fatalf("offline register: %v", err)
	}
	if !mgr.Registered() {
		t.Error("offline probe must not unregister a live gateway")
	}
	if mgr.Version() != version {
		t.Errorf("version changed while offline: %q -> %q", version, mgr.Version())
	}
}

func TestRegisterOfflineLeavesGatewayAlone(t *testing.T) {
	registrar, mgr, fetcher := newRegistrarFixture(t)
	fetcher.offline = true

	if err := registrar.Register(context.Background()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if mgr.Registered() {
		t.Error("offline probe must not register the gateway")
	}
}
