// Package analytics provides database persistence for analytics events
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/database"
	"github.com/oklog/ulid/v2"
)

// Event is one recorded analytics event row.
type Event struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Action    string    `json:"action"`
	Label     string    `json:"label,omitempty"`
	Value     int       `json:"value,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository stores analytics events.
type Repository struct {
	db *database.DB
}

// NewRepository creates an analytics event repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Insert records one event.
func (r *Repository) Insert(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO analytics_events (id, category, action, label, value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Category, event.Action, event.Label, event.Value, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

// CountByCategory aggregates event counts per category.
func (r *Repository) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM analytics_events GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate analytics events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}
