package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/dealdesk/internal/order"
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

const selectOrderColumns = `
	id, status, customer, estimate_id, amount, items, progress, sub_status,
	payment_status, payment_received, confirmed_date, expected_delivery, notes, created_at
`

func scanOrder(s scanner) (*order.Order, error) {
	var o order.Order

	if err := s.Scan(
		&o.ID, &o.Status, &o.Customer, &o.EstimateID, &o.Amount, &o.Items, &o.Progress, &o.SubStatus,
		&o.PaymentStatus, &o.PaymentReceived, &o.ConfirmedDate, &o.ExpectedDelivery, &o.Notes, &o.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &o, nil
}

func (s *Store) Insert(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (
			status, customer, estimate_id, amount, items, progress, sub_status,
			payment_status, payment_received, confirmed_date, expected_delivery, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		o.Status,
		o.Customer,
		o.EstimateID,
		o.Amount,
		o.Items,
		o.Progress,
		o.SubStatus,
		o.PaymentStatus,
		o.PaymentReceived,
		o.ConfirmedDate,
		o.ExpectedDelivery,
		o.Notes,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return storage.Unavailable("inserting order", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, o *order.Order) error {
	query := `
		UPDATE orders
		SET status = $1, customer = $2, amount = $3, items = $4, progress = $5, sub_status = $6,
			payment_status = $7, payment_received = $8, confirmed_date = $9, expected_delivery = $10,
			notes = $11, updated_at = NOW()
		WHERE id = $12
	`

	res, err := s.db.ExecContext(ctx, query,
		o.Status,
		o.Customer,
		o.Amount,
		o.Items,
		o.Progress,
		o.SubStatus,
		o.PaymentStatus,
		o.PaymentReceived,
		o.ConfirmedDate,
		o.ExpectedDelivery,
		o.Notes,
		o.ID,
	)
	if err != nil {
		return storage.Unavailable("updating order", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storage.Unavailable("updating order", err)
	}

	if n == 0 {
		return order.ErrNotFound
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, storage.Unavailable("getting order", err)
	}

	return o, nil
}

func (s *Store) FindByEstimateID(ctx context.Context, estimateID int64) (*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders WHERE estimate_id = $1`

	o, err := scanOrder(s.db.QueryRowContext(ctx, query, estimateID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, storage.Unavailable("finding order by estimate", err)
	}

	return o, nil
}

func (s *Store) List(ctx context.Context) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storage.Unavailable("listing orders", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("listing orders", err)
	}

	return orders, nil
}
