package stores

import (
	"net/http"
	"testing"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
)

func testEntry(url, body string) *types.Entry {
	return &types.Entry{
		Status:   http.StatusOK,
		Header:   http.Header{"Content-Type": []string{"text/html"}},
		Body:     []byte(body),
		URL:      url,
		StoredAt: time.Now().UTC(),
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	gen, err := store.Open("v1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	key := types.EntryKey("GET", "http://localhost:4321/index.html")
	if err := gen.Put(key, testEntry("http://localhost:4321/index.html", "hello")); err != nil {
		t.Fatalf("put: %v", err)
	}

	entry, found, err := gen.Match(key)
	if err != nil || !found {
		t.Fatalf("match: found=%v err=%v", found, err)
	}
	if string(entry.Body) != "hello" {
		t.Errorf("body = %q, want hello", entry.Body)
	}

	if _, found, _ := gen.Match("GET http://localhost:4321/missing"); found {
		t.Error("unexpected match for absent key")
	}
}

func TestMemoryStoreMatchReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	gen, _ := store.Open("v1")

	key := types.EntryKey("GET", "http://localhost:4321/")
	gen.Put(key, testEntry("http://localhost:4321/", "original"))

	entry, _, _ := gen.Match(key)
	entry.Body[0] = 'X'
	entry.Header.Set("Content-Type", "mutated")

	fresh, _, _ := gen.Match(key)
	if string(fresh.Body) != "original" {
		t.Errorf("stored body mutated through returned copy: %q", fresh.Body)
	}
	if fresh.Header.Get("Content-Type") != "text/html" {
		t.Errorf("stored header mutated through returned copy")
	}
}

func TestMemoryStoreGenerationLifecycle(t *testing.T) {
	store := NewMemoryStore()
	store.Open("v1")
	store.Open("v2")

	names, err := store.Names()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 || names[0] != "v1" || names[1] != "v2" {
		t.Errorf("names = %v", names)
	}

	if err := store.Delete("v1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	names, _ = store.Names()
	if len(names) != 1 || names[0] != "v2" {
		t.Errorf("after delete, names = %v", names)
	}
}

func TestMemoryGenerationKeysAndDelete(t *testing.T) {
	store := NewMemoryStore()
	gen, _ := store.Open("v1")

	gen.Put("GET b", testEntry("b", "b"))
	gen.Put("GET a", testEntry("a", "a"))

	keys, err := gen.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "GET a" {
		t.Errorf("keys = %v", keys)
	}

	gen.Delete("GET a")
	keys, _ = gen.Keys()
	if len(keys) != 1 || keys[0] != "GET b" {
		t.Errorf("after delete, keys = %v", keys)
	}
}
