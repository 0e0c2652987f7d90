package drafts

import (
	"testing"

	"github.com/AtRiskMedia/portfolio-go/internal/domain/entities/forms"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/database"
)

func runStoreTests(t *testing.T, store Store) {
	t.Helper()

	if _, found, err := store.Load("contactFormDraft:s1"); err != nil || found {
		t.Fatalf("empty store: found=%v err=%v", found, err)
	}

	draft := &forms.Draft{Name: "Jordan", Email: "j@example.com", Message: "draft body"}
	if err := store.Save("contactFormDraft:s1", draft); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, found, err := store.Load("contactFormDraft:s1")
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if *loaded != *draft {
		t.Errorf("loaded %+v, want %+v", loaded, draft)
	}

	// Overwrite replaces the previous snapshot.
	draft.Message = "updated body"
	if err := store.Save("contactFormDraft:s1", draft); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	loaded, _, _ = store.Load("contactFormDraft:s1")
	if loaded.Message != "updated body" {
		t.Errorf("overwrite not applied: %q", loaded.Message)
	}

	if err := store.Remove("contactFormDraft:s1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, found, _ := store.Load("contactFormDraft:s1"); found {
		t.Error("draft survived removal")
	}

	// Removing an absent key is a no-op.
	if err := store.Remove("contactFormDraft:never"); err != nil {
		t.Errorf("remove absent key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}

func TestSQLStore(t *testing.T) {
	db, err := database.NewConnection("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	runStoreTests(t, NewSQLStore(db))
}
