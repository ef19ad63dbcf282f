package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/sciencesync/internal/server/storage"
)

// SaveSubmission persists an accepted submission
func (s *Storage) SaveSubmission(ctx context.Context, submission *storage.Submission) error {
	query := `
		INSERT INTO submissions (id, name, role, received_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		submission.ID,
		submission.Name,
		submission.Role,
		submission.ReceivedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	return nil
}

// ListSubmissions returns all accepted submissions, oldest first
func (s *Storage) ListSubmissions(ctx context.Context) ([]*storage.Submission, error) {
	query := `
		SELECT id, name, role, received_at
		FROM submissions
		ORDER BY received_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var submissions []*storage.Submission
	for rows.Next() {
		var sub storage.Submission
		var receivedAt int64

		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Role, &receivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}

		sub.ReceivedAt = time.Unix(receivedAt, 0).UTC()
		submissions = append(submissions, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	return submissions, nil
}

// CountByRole returns the number of accepted submissions per role
func (s *Storage) CountByRole(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT role, COUNT(*)
		FROM submissions
		GROUP BY role
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query role counts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[string]int)
	for rows.Next() {
		var role string
		var count int

		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan role count: %w", err)
		}

		counts[role] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role counts: %w", err)
	}

	return counts, nil
}
