package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrGuideNotFound is returned when a saved guide id does not exist.
var ErrGuideNotFound = errors.New("saved guide not found")

// SavedGuide is a guide persisted to Postgres.
type SavedGuide struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content,omitempty"`
	Inputs    InputSummary `json:"inputs"`
	Model     string       `json:"model"`
	CreatedAt time.Time    `json:"created_at"`
}

// Store persists guides in the saved_guides table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save inserts a guide and returns the stored row.
func (s *Store) Save(ctx context.Context, guide *ProjectGuide) (*SavedGuide, error) {
	inputs, err := json.Marshal(guide.Inputs)
	if err != nil {
		return nil, fmt.Errorf("marshal inputs: %w", err)
	}

	saved := &SavedGuide{
		ID:      uuid.New().String(),
		Title:   guide.Title,
		Content: guide.Content,
		Inputs:  guide.Inputs,
		Model:   guide.Model,
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO saved_guides (id, title, content, inputs, model)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		saved.ID, saved.Title, saved.Content, inputs, saved.Model,
	).Scan(&saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert saved guide: %w", err)
	}
	return saved, nil
}

// List returns saved guide summaries, newest first. Content is omitted.
func (s *Store) List(ctx context.Context) ([]SavedGuide, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, inputs, model, created_at
		FROM saved_guides
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saved guides: %w", err)
	}
	defer rows.Close()

	guides := make([]SavedGuide, 0)
	for rows.Next() {
		var g SavedGuide
		var inputs []byte
		if err := rows.Scan(&g.ID, &g.Title, &inputs, &g.Model, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved guide: %w", err)
		}
		if err := json.Unmarshal(inputs, &g.Inputs); err != nil {
			return nil, fmt.Errorf("decode inputs for %s: %w", g.ID, err)
		}
		guides = append(guides, g)
	}
	return guides, rows.Err()
}

// Get returns one saved guide with its full content.
func (s *Store) Get(ctx context.Context, id string) (*SavedGuide, error) {
	var g SavedGuide
	var inputs []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, inputs, model, created_at
		FROM saved_guides
		WHERE id = $1`, id,
	).Scan(&g.ID, &g.Title, &g.Content, &inputs, &g.Model, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get saved guide: %w", err)
	}
	if err := json.Unmarshal(inputs, &g.Inputs); err != nil {
		return nil, fmt.Errorf("decode inputs for %s: %w", g.ID, err)
	}
	return &g, nil
}

// Delete removes a saved guide.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_guides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved guide: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrGuideNotFound
	}
	return nil
}
