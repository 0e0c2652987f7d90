// Package drafts provides the durable key-value store for form drafts
package drafts

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/domain/entities/forms"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/database"
)

// Store is the synchronous key-value storage used for draft persistence:
// get, set and remove by storage key.
type Store interface {
	Load(key string) (*forms.Draft, bool, error)
	Save(key string, draft *forms.Draft) error
	Remove(key string) error
}

// SQLStore persists drafts in the form_drafts table.
type SQLStore struct {
	db *database.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a database-backed draft store.
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Load reads the draft stored under key.
func (s *SQLStore) Load(key string) (*forms.Draft, bool, error) {
	draft := &forms.Draft{}
	err := s.db.QueryRow(
		`SELECT name, email, message FROM form_drafts WHERE storage_key = ?`, key,
	).Scan(&draft.Name, &draft.Email, &draft.Message)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load draft: %w", err)
	}
	return draft, true, nil
}

// Save writes the draft under key, overwriting any previous snapshot.
func (s *SQLStore) Save(key string, draft *forms.Draft) error {
	_, err := s.db.Exec(
		`INSERT INTO form_drafts (storage_key, name, email, message, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(storage_key) DO UPDATE SET
		 name = excluded.name, email = excluded.email,
		 message = excluded.message, updated_at = excluded.updated_at`,
		key, draft.Name, draft.Email, draft.Message, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Remove deletes the draft stored under key.
func (s *SQLStore) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM form_drafts WHERE storage_key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove draft: %w", err)
	}
	return nil
}

// MemoryStore keeps drafts in process memory. Used in development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]forms.Draft
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory draft store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]forms.Draft)}
}

// Load reads the draft stored under key.
func (s *MemoryStore) Load(key string) (*forms.Draft, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, exists := s.drafts[key]
	if !exists {
		return nil, false, nil
	}
	copied := draft
	return &copied, true, nil
}

// Save writes the draft under key.
func (s *MemoryStore) Save(key string, draft *forms.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[key] = *draft
	return nil
}

// Remove deletes the draft stored under key.
func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}
