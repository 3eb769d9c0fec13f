package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertCustomer(ctx context.Context, c *contact.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, c.Name, c.Email, c.Phone).Scan(&c.ID, &c.CreatedAt); err != nil {
		return storage.Unavailable("inserting customer", err)
	}

	return nil
}

func (s *Store) FindCustomerByName(ctx context.Context, name string) (*contact.Customer, error) {
	query := `
		SELECT id, name, email, phone, created_at
		FROM customers
		WHERE LOWER(name) = LOWER($1)
		ORDER BY id
		LIMIT 1
	`

	var c contact.Customer

	err := s.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contact.ErrNotFound
		}

		return nil, storage.Unavailable("finding customer", err)
	}

	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]*contact.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, phone, created_at FROM customers ORDER BY name, id`)
	if err != nil {
		return nil, storage.Unavailable("listing customers", err)
	}
	defer rows.Close()

	var customers []*contact.Customer

	for rows.Next() {
		var c contact.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}

		customers = append(customers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("listing customers", err)
	}

	return customers, nil
}

func (s *Store) InsertVendor(ctx context.Context, v *contact.Vendor) error {
	query := `
		INSERT INTO vendors (name, contact, email, phone, address, category, rating, lead_time, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		v.Name,
		v.Contact,
		v.Email,
		v.Phone,
		v.Address,
		v.Category,
		v.Rating,
		v.LeadTime,
		v.Notes,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return storage.Unavailable("inserting vendor", err)
	}

	return nil
}

func (s *Store) ListVendors(ctx context.Context) ([]*contact.Vendor, error) {
	query := `
		SELECT id, name, contact, email, phone, address, category, rating, lead_time, notes, created_at
		FROM vendors
		ORDER BY name, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storage.Unavailable("listing vendors", err)
	}
	defer rows.Close()

	var vendors []*contact.Vendor

	for rows.Next() {
		var v contact.Vendor
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Contact, &v.Email, &v.Phone, &v.Address,
			&v.Category, &v.Rating, &v.LeadTime, &v.Notes, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}

		vendors = append(vendors, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("listing vendors", err)
	}

	return vendors, nil
}
