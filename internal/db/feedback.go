package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Feedback represents a feedback record submitted by a user
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateFeedback stores a feedback message for a user
func (db *DB) CreateFeedback(ctx context.Context, userID uuid.UUID, message string) (*Feedback, error) {
	var fb Feedback
	err := db.pool.QueryRow(ctx,
		`INSERT INTO feedback (user_id, message) VALUES ($1, $2)
		 RETURNING id, user_id, message, created_at`,
		userID, message,
	).Scan(&fb.ID, &fb.UserID, &fb.Message, &fb.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return &fb, nil
}

// ListFeedbackByUser retrieves feedback messages submitted by a user, newest first
func (db *DB) ListFeedbackByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Feedback, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, message, created_at FROM feedback
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var items []Feedback
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.Message, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		items = append(items, fb)
	}
	return items, nil
}
