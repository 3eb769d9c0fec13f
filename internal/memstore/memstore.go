// Package memstore provides in-memory implementations of the repositories. It backs
// STORE=memory deployments and end-to-end tests; nothing is persisted across restarts.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

// Estimates implements estimate.Repository.
type Estimates struct {
	mu   sync.RWMutex
	seq  int64
	rows map[int64]estimate.Estimate
	now  func() time.Time
}

func NewEstimates() *Estimates {
	return &Estimates{rows: map[int64]estimate.Estimate{}, now: time.Now}
}

func cloneEstimate(e estimate.Estimate) *estimate.Estimate {
	e.Items = slices.Clone(e.Items)
	e.History = slices.Clone(e.History)

	return &e
}

func (s *Estimates) Insert(_ context.Context, e *estimate.Estimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e.ID = s.seq
	e.CreatedAt = s.now()
	s.rows[e.ID] = *cloneEstimate(*e)

	return nil
}

func (s *Estimates) Get(_ context.Context, id int64) (*estimate.Estimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.rows[id]
	if !ok {
		return nil, estimate.ErrNotFound
	}

	return cloneEstimate(e), nil
}

func (s *Estimates) GetByShareToken(_ context.Context, token uuid.UUID) (*estimate.Estimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.rows {
		if e.ShareToken == token {
			return cloneEstimate(e), nil
		}
	}

	return nil, estimate.ErrNotFound
}

// List returns estimates newest first.
func (s *Estimates) List(_ context.Context) ([]*estimate.Estimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*estimate.Estimate, 0, len(s.rows))
	for _, e := range s.rows {
		out = append(out, cloneEstimate(e))
	}

	slices.SortFunc(out, func(a, b *estimate.Estimate) int {
		return cmp.Compare(b.ID, a.ID)
	})

	return out, nil
}

func (s *Estimates) UpdateStatus(_ context.Context, id int64, status estimate.Status, history []estimate.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.rows[id]
	if !ok {
		return estimate.ErrNotFound
	}

	e.Status = status
	e.History = slices.Clone(history)
	s.rows[id] = e

	return nil
}

func (s *Estimates) UpdateInternalNotes(_ context.Context, id int64, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.rows[id]
	if !ok {
		return estimate.ErrNotFound
	}

	e.InternalNotes = notes
	s.rows[id] = e

	return nil
}

func (s *Estimates) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows, id)

	return nil
}

// Orders implements order.Repository.
type Orders struct {
	mu   sync.RWMutex
	seq  int64
	rows map[int64]order.Order
	now  func() time.Time
}

func NewOrders() *Orders {
	return &Orders{rows: map[int64]order.Order{}, now: time.Now}
}

func (s *Orders) Insert(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	o.ID = s.seq
	o.CreatedAt = s.now()
	s.rows[o.ID] = *o

	return nil
}

func (s *Orders) Update(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.rows[o.ID]
	if !ok {
		return order.ErrNotFound
	}

	updated := *o
	updated.EstimateID = prev.EstimateID
	updated.CreatedAt = prev.CreatedAt
	s.rows[o.ID] = updated

	return nil
}

func (s *Orders) Get(_ context.Context, id int64) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.rows[id]
	if !ok {
		return nil, order.ErrNotFound
	}

	return &o, nil
}

func (s *Orders) FindByEstimateID(_ context.Context, estimateID int64) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.rows {
		if o.EstimateID != nil && *o.EstimateID == estimateID {
			return &o, nil
		}
	}

	return nil, nil
}

func (s *Orders) List(_ context.Context) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*order.Order, 0, len(s.rows))
	for _, o := range s.rows {
		out = append(out, &o)
	}

	slices.SortFunc(out, func(a, b *order.Order) int {
		return cmp.Compare(b.ID, a.ID)
	})

	return out, nil
}

// Board implements pipeline.Repository.
type Board struct {
	mu     sync.RWMutex
	stages []pipeline.Stage
}

func NewBoard() *Board {
	return &Board{}
}

func cloneBoard(stages []pipeline.Stage) []pipeline.Stage {
	if stages == nil {
		return nil
	}

	out := make([]pipeline.Stage, len(stages))
	for i, st := range stages {
		st.Cards = slices.Clone(st.Cards)
		out[i] = st
	}

	return out
}

func (b *Board) Get(_ context.Context) ([]pipeline.Stage, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return cloneBoard(b.stages), nil
}

func (b *Board) Save(_ context.Context, stages []pipeline.Stage) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stages = cloneBoard(stages)

	return nil
}

// Contacts implements contact.Repository.
type Contacts struct {
	mu        sync.RWMutex
	seq       int64
	customers []contact.Customer
	vendors   []contact.Vendor
	now       func() time.Time
}

func NewContacts() *Contacts {
	return &Contacts{now: time.Now}
}

func (s *Contacts) InsertCustomer(_ context.Context, c *contact.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	c.ID = s.seq
	c.CreatedAt = s.now()
	s.customers = append(s.customers, *c)

	return nil
}

func (s *Contacts) FindCustomerByName(_ context.Context, name string) (*contact.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}

	return nil, contact.ErrNotFound
}

func (s *Contacts) ListCustomers(_ context.Context) ([]*contact.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*contact.Customer, len(s.customers))
	for i := range s.customers {
		c := s.customers[i]
		out[i] = &c
	}

	return out, nil
}

func (s *Contacts) InsertVendor(_ context.Context, v *contact.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	v.ID = s.seq
	v.CreatedAt = s.now()
	s.vendors = append(s.vendors, *v)

	return nil
}

func (s *Contacts) ListVendors(_ context.Context) ([]*contact.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*contact.Vendor, len(s.vendors))
	for i := range s.vendors {
		v := s.vendors[i]
		out[i] = &v
	}

	return out, nil
}
