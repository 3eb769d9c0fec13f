package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	"github.com/MrJamesThe3rd/dealdesk/internal/storage"
)

// Store keeps the board as a single JSON document.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the saved stages, or nil when the board was never saved.
func (s *Store) Get(ctx context.Context) ([]pipeline.Stage, error) {
	var raw []byte

	err := s.db.QueryRowContext(ctx, `SELECT stages FROM pipeline_board WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, storage.Unavailable("loading pipeline", err)
	}

	var stages []pipeline.Stage
	if err := json.Unmarshal(raw, &stages); err != nil {
		return nil, fmt.Errorf("decoding pipeline: %w", err)
	}

	return stages, nil
}

func (s *Store) Save(ctx context.Context, stages []pipeline.Stage) error {
	raw, err := json.Marshal(stages)
	if err != nil {
		return fmt.Errorf("encoding pipeline: %w", err)
	}

	query := `
		INSERT INTO pipeline_board (id, stages, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET stages = EXCLUDED.stages, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, raw); err != nil {
		return storage.Unavailable("saving pipeline", err)
	}

	return nil
}
