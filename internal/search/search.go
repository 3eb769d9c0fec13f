// Package search runs a free-text query across customers, vendors, estimates and orders.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
)

type ContactLister interface {
	ListCustomers(ctx context.Context) ([]*contact.Customer, error)
	ListVendors(ctx context.Context) ([]*contact.Vendor, error)
}

type EstimateLister interface {
	List(ctx context.Context) ([]*estimate.Estimate, error)
}

type OrderLister interface {
	List(ctx context.Context) ([]*order.Order, error)
}

type Result struct {
	Customers []*contact.Customer
	Vendors   []*contact.Vendor
	Estimates []*estimate.Estimate
	Orders    []*order.Order
}

type Service struct {
	contacts  ContactLister
	estimates EstimateLister
	orders    OrderLister
}

func NewService(contacts ContactLister, estimates EstimateLister, orders OrderLister) *Service {
	return &Service{
		contacts:  contacts,
		estimates: estimates,
		orders:    orders,
	}
}

// Search matches q case-insensitively against names and emails, and as a plain substring
// against phone numbers and order estimate ids. An empty query matches everything.
func (s *Service) Search(ctx context.Context, q string) (*Result, error) {
	var (
		customers []*contact.Customer
		vendors   []*contact.Vendor
		estimates []*estimate.Estimate
		orders    []*order.Order
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if customers, err = s.contacts.ListCustomers(gctx); err != nil {
			return fmt.Errorf("listing customers: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error
		if vendors, err = s.contacts.ListVendors(gctx); err != nil {
			return fmt.Errorf("listing vendors: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error
		if estimates, err = s.estimates.List(gctx); err != nil {
			return fmt.Errorf("listing estimates: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error
		if orders, err = s.orders.List(gctx); err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	q = strings.TrimSpace(q)
	lower := strings.ToLower(q)

	res := &Result{
		Customers: []*contact.Customer{},
		Vendors:   []*contact.Vendor{},
		Estimates: []*estimate.Estimate{},
		Orders:    []*order.Order{},
	}

	for _, c := range customers {
		if fold(c.Name, lower) || fold(c.Email, lower) || strings.Contains(c.Phone, q) {
			res.Customers = append(res.Customers, c)
		}
	}

	for _, v := range vendors {
		if fold(v.Name, lower) || fold(v.Email, lower) || strings.Contains(v.Phone, q) {
			res.Vendors = append(res.Vendors, v)
		}
	}

	for _, e := range estimates {
		if fold(e.Customer.Name, lower) || fold(e.Customer.Email, lower) ||
			strings.Contains(e.Customer.Phone, q) || fold(e.Identity.Name, lower) {
			res.Estimates = append(res.Estimates, e)
		}
	}

	for _, o := range orders {
		if fold(o.Customer, lower) ||
			(o.EstimateID != nil && strings.Contains(strconv.FormatInt(*o.EstimateID, 10), q)) {
			res.Orders = append(res.Orders, o)
		}
	}

	return res, nil
}

func fold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
