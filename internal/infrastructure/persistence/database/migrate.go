// Package database provides database helper functions
package database

import (
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'unread',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		label TEXT,
		value INTEGER,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS form_drafts (
		storage_key TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cache_entries (
		generation TEXT NOT NULL,
		entry_key TEXT NOT NULL,
		status INTEGER NOT NULL,
		header TEXT NOT NULL,
		body BLOB NOT NULL,
		url TEXT NOT NULL,
		stored_at TIMESTAMP NOT NULL,
		PRIMARY KEY (generation, entry_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_messages_status ON contact_messages(status)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_events_category ON analytics_events(category)`,
}

// Migrate applies the schema, creating any missing tables and indexes.
func (db *DB) Migrate() error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
