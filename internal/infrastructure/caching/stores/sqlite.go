package stores

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/database"
)

// SQLiteStore persists cache generations in the cache_entries table so that
// snapshots survive restarts. Headers are stored as JSON.
type SQLiteStore struct {
	db *database.DB
}

var _ interfaces.Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a database-backed cache store.
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open returns a handle on the named generation. Generations exist implicitly
// as soon as an entry is stored under their name.
func (s *SQLiteStore) Open(name string) (interfaces.Generation, error) {
	return &sqliteGeneration{db: s.db, name: name}, nil
}

// Names enumerates generation names currently holding entries.
func (s *SQLiteStore) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT generation FROM cache_entries ORDER BY generation`)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate cache generations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a whole generation and every entry it holds.
func (s *SQLiteStore) Delete(name string) error {
	if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE generation = ?`, name); err != nil {
		return fmt.Errorf("failed to delete cache generation %s: %w", name, err)
	}
	return nil
}

type sqliteGeneration struct {
	db   *database.DB
	name string
}

func (g *sqliteGeneration) Name() string { return g.name }

func (g *sqliteGeneration) Match(key string) (*types.Entry, bool, error) {
	var (
		status     int
		headerJSON string
		body       []byte
		url        string
		storedAt   time.Time
	)
	err := g.db.QueryRow(
		`SELECT status, header, body, url, stored_at FROM cache_entries WHERE generation = ? AND entry_key = ?`,
		g.name, key,
	).Scan(&status, &headerJSON, &body, &url, &storedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache match failed for %s: %w", key, err)
	}

	header := make(http.Header)
	if err := json.Unmarshal([]byte(headerJSON), &header); err != nil {
		return nil, false, fmt.Errorf("corrupt cached header for %s: %w", key, err)
	}

	return &types.Entry{
		Status:   status,
		Header:   header,
		Body:     body,
		URL:      url,
		StoredAt: storedAt,
	}, true, nil
}

func (g *sqliteGeneration) Put(key string, entry *types.Entry) error {
	headerJSON, err := json.Marshal(entry.Header)
	if err != nil {
		return fmt.Errorf("failed to encode cached header for %s: %w", key, err)
	}
	_, err = g.db.Exec(
		`INSERT INTO cache_entries (generation, entry_key, status, header, body, url, stored_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(generation, entry_key) DO UPDATE SET
		 status = excluded.status, header = excluded.header, body = excluded.body,
		 url = excluded.url, stored_at = excluded.stored_at`,
		g.name, key, entry.Status, string(headerJSON), entry.Body, entry.URL, entry.StoredAt,
	)
	if err != nil {
		return fmt.Errorf("cache put failed for %s: %w", key, err)
	}
	return nil
}

func (g *sqliteGeneration) Keys() ([]string, error) {
	rows, err := g.db.Query(
		`SELECT entry_key FROM cache_entries WHERE generation = ? ORDER BY entry_key`, g.name)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate cache keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (g *sqliteGeneration) Delete(key string) error {
	if _, err := g.db.Exec(
		`DELETE FROM cache_entries WHERE generation = ? AND entry_key = ?`, g.name, key); err != nil {
		return fmt.Errorf("cache delete failed for %s: %w", key, err)
	}
	return nil
}
