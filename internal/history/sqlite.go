package history

import (
	"context"
	"fmt"
	"time"

	"github.com/dkalnina/notedrop/internal/dbx"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add inserts one submission record. A missing ID or CreatedAt is filled in
// here so callers only describe the outcome.
func (r *SQLiteRepository) Add(ctx context.Context, s *Submission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions (id, created_at, title, images_total, images_uploaded, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.CreatedAt, s.Title, s.ImagesTotal, s.ImagesUploaded, s.Status, s.Error)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// Recent returns up to limit submissions, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]*Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, title, images_total, images_uploaded, status, error
		FROM submissions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var result []*Submission
	for rows.Next() {
		s := &Submission{}
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Title, &s.ImagesTotal, &s.ImagesUploaded, &s.Status, &s.Error); err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submission rows: %w", err)
	}

	return result, nil
}
