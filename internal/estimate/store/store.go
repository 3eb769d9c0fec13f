package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectEstimateColumns = `
	id, share_token, status, send_as, identity, customer_name, customer_email, customer_phone,
	template_id, items, totals, tax_enabled, notes, internal_notes, history, created_at
`

// scanEstimate reads a row in selectEstimateColumns order.
func scanEstimate(s scanner) (*estimate.Estimate, error) {
	var e estimate.Estimate

	var identity, items, totals, history []byte

	if err := s.Scan(
		&e.ID, &e.ShareToken, &e.Status, &e.SendAs, &identity,
		&e.Customer.Name, &e.Customer.Email, &e.Customer.Phone,
		&e.TemplateID, &items, &totals, &e.TaxEnabled, &e.Notes, &e.InternalNotes, &history,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(identity, &e.Identity); err != nil {
		return nil, fmt.Errorf("decoding identity: %w", err)
	}

	if err := json.Unmarshal(items, &e.Items); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	if err := json.Unmarshal(totals, &e.Totals); err != nil {
		return nil, fmt.Errorf("decoding totals: %w", err)
	}

	if err := json.Unmarshal(history, &e.History); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}

	return &e, nil
}

func (s *Store) Insert(ctx context.Context, e *estimate.Estimate) error {
	identity, err := json.Marshal(e.Identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}

	items, err := json.Marshal(e.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	totals, err := json.Marshal(e.Totals)
	if err != nil {
		return fmt.Errorf("encoding totals: %w", err)
	}

	history, err := json.Marshal(e.History)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	query := `
		INSERT INTO estimates (
			share_token, status, send_as, identity, customer_name, customer_email, customer_phone,
			template_id, items, totals, tax_enabled, notes, internal_notes, history, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		e.ShareToken,
		e.Status,
		e.SendAs,
		identity,
		e.Customer.Name,
		e.Customer.Email,
		e.Customer.Phone,
		e.TemplateID,
		items,
		totals,
		e.TaxEnabled,
		e.Notes,
		e.InternalNotes,
		history,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return storage.Unavailable("inserting estimate", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*estimate.Estimate, error) {
	query := `SELECT ` + selectEstimateColumns + ` FROM estimates WHERE id = $1`

	e, err := scanEstimate(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, estimate.ErrNotFound
		}

		return nil, storage.Unavailable("getting estimate", err)
	}

	return e, nil
}

func (s *Store) GetByShareToken(ctx context.Context, token uuid.UUID) (*estimate.Estimate, error) {
	query := `SELECT ` + selectEstimateColumns + ` FROM estimates WHERE share_token = $1`

	e, err := scanEstimate(s.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, estimate.ErrNotFound
		}

		return nil, storage.Unavailable("getting shared estimate", err)
	}

	return e, nil
}

func (s *Store) List(ctx context.Context) ([]*estimate.Estimate, error) {
	query := `SELECT ` + selectEstimateColumns + ` FROM estimates ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storage.Unavailable("listing estimates", err)
	}
	defer rows.Close()

	var estimates []*estimate.Estimate

	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning estimate: %w", err)
		}

		estimates = append(estimates, e)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("listing estimates", err)
	}

	return estimates, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status estimate.Status, history []estimate.HistoryEntry) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	query := `
		UPDATE estimates
		SET status = $1, history = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, status, raw, id)
	if err != nil {
		return storage.Unavailable("updating estimate status", err)
	}

	return requireRow(res)
}

func (s *Store) UpdateInternalNotes(ctx context.Context, id int64, notes string) error {
	query := `
		UPDATE estimates
		SET internal_notes = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, notes, id)
	if err != nil {
		return storage.Unavailable("updating internal notes", err)
	}

	return requireRow(res)
}

// Delete removes the estimate row. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM estimates WHERE id = $1`, id); err != nil {
		return storage.Unavailable("deleting estimate", err)
	}

	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Unavailable("reading affected rows", err)
	}

	if n == 0 {
		return estimate.ErrNotFound
	}

	return nil
}
