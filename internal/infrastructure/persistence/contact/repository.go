// Package contact provides database persistence for contact messages
package contact

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/domain/entities/contact"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/database"
)

// Repository stores and retrieves contact messages.
type Repository struct {
	db *database.DB
}

// NewRepository creates a contact message repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new contact message.
func (r *Repository) Create(ctx context.Context, msg *contact.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, message, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Name, msg.Email, msg.Message, msg.Status, msg.CreatedAt, msg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact message: %w", err)
	}
	return nil
}

// List returns contact messages according to the given options, newest first.
func (r *Repository) List(ctx context.Context, opts contact.ListOptions) ([]*contact.Message, error) {
	query := `SELECT id, name, email, message, status, created_at, updated_at FROM contact_messages`
	args := []any{}

	if opts.Status != "" && opts.Status != "all" {
		query += ` WHERE status = ?`
		args = append(args, opts.Status)
	}
	query += ` ORDER BY created_at DESC`

	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*contact.Message
	for rows.Next() {
		msg := &contact.Message{}
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.Status, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkRead transitions a message to the read status.
func (r *Repository) MarkRead(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET status = ?, updated_at = ? WHERE id = ?`,
		contact.StatusRead, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
