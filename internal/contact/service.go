package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contact
type Repository interface {
	InsertCustomer(ctx context.Context, c *Customer) error
	FindCustomerByName(ctx context.Context, name string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	InsertVendor(ctx context.Context, v *Vendor) error
	ListVendors(ctx context.Context) ([]*Vendor, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateCustomer(ctx context.Context, c *Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrNameRequired
	}

	return s.repo.InsertCustomer(ctx, c)
}

func (s *Service) ListCustomers(ctx context.Context) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// EnsureCustomer records a customer named on an estimate unless one with the same name,
// compared case-insensitively, already exists.
func (s *Service) EnsureCustomer(ctx context.Context, name, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}

	_, err := s.repo.FindCustomerByName(ctx, name)
	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("looking up customer %q: %w", name, err)
	}

	return s.repo.InsertCustomer(ctx, &Customer{Name: name, Email: email, Phone: phone})
}

func (s *Service) CreateVendor(ctx context.Context, v *Vendor) error {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return ErrNameRequired
	}

	return s.repo.InsertVendor(ctx, v)
}

func (s *Service) ListVendors(ctx context.Context) ([]*Vendor, error) {
	return s.repo.ListVendors(ctx)
}
