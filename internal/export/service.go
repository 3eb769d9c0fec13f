// Package export writes customers, vendors, estimates and orders as CSV, one file per list or
// bundled together in a zip archive.
package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
)

var (
	customerColumns = []string{"id", "name", "email", "phone", "createdAt"}
	vendorColumns   = []string{"id", "name", "contact", "email", "phone", "address", "category", "rating", "leadTime", "notes", "createdAt"}
	estimateColumns = []string{"id", "status", "customer", "email", "phone", "items", "subtotal", "tax", "total", "createdAt"}
	orderColumns    = []string{"id", "status", "customer", "estimateId", "amount", "paymentStatus", "paymentReceived", "outstanding", "progress", "createdAt"}
)

type Source interface {
	ListCustomers(ctx context.Context) ([]*contact.Customer, error)
	ListVendors(ctx context.Context) ([]*contact.Vendor, error)
}

type EstimateLister interface {
	List(ctx context.Context) ([]*estimate.Estimate, error)
}

type OrderLister interface {
	List(ctx context.Context) ([]*order.Order, error)
}

type Service struct {
	contacts  Source
	estimates EstimateLister
	orders    OrderLister
	now       func() time.Time
}

func NewService(contacts Source, estimates EstimateLister, orders OrderLister) *Service {
	return &Service{
		contacts:  contacts,
		estimates: estimates,
		orders:    orders,
		now:       time.Now,
	}
}

func (s *Service) Customers(ctx context.Context, w io.Writer) error {
	customers, err := s.contacts.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("listing customers: %w", err)
	}

	return WriteCustomersCSV(w, customers)
}

func (s *Service) Vendors(ctx context.Context, w io.Writer) error {
	vendors, err := s.contacts.ListVendors(ctx)
	if err != nil {
		return fmt.Errorf("listing vendors: %w", err)
	}

	return WriteVendorsCSV(w, vendors)
}

func (s *Service) Estimates(ctx context.Context, w io.Writer) error {
	estimates, err := s.estimates.List(ctx)
	if err != nil {
		return fmt.Errorf("listing estimates: %w", err)
	}

	return WriteEstimatesCSV(w, estimates)
}

func (s *Service) Orders(ctx context.Context, w io.Writer) error {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return fmt.Errorf("listing orders: %w", err)
	}

	return WriteOrdersCSV(w, orders)
}

// Bundle writes a zip archive holding every list plus a plain-text summary.
func (s *Service) Bundle(ctx context.Context, w io.Writer) error {
	customers, err := s.contacts.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("listing customers: %w", err)
	}

	vendors, err := s.contacts.ListVendors(ctx)
	if err != nil {
		return fmt.Errorf("listing vendors: %w", err)
	}

	estimates, err := s.estimates.List(ctx)
	if err != nil {
		return fmt.Errorf("listing estimates: %w", err)
	}

	orders, err := s.orders.List(ctx)
	if err != nil {
		return fmt.Errorf("listing orders: %w", err)
	}

	zw := zip.NewWriter(w)

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"customers.csv", func(w io.Writer) error { return WriteCustomersCSV(w, customers) }},
		{"vendors.csv", func(w io.Writer) error { return WriteVendorsCSV(w, vendors) }},
		{"estimates.csv", func(w io.Writer) error { return WriteEstimatesCSV(w, estimates) }},
		{"orders.csv", func(w io.Writer) error { return WriteOrdersCSV(w, orders) }},
		{"summary.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, Summary(s.now(), estimates, orders))
			return err
		}},
	}

	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("adding %s: %w", f.name, err)
		}

		if err := f.write(fw); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}

// Summary renders a short human-readable digest of estimates and orders.
func Summary(at time.Time, estimates []*estimate.Estimate, orders []*order.Order) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Export %s\n\n", at.Format("2006-01-02 15:04"))

	byStatus := make(map[estimate.Status]int)
	for _, e := range estimates {
		byStatus[e.Status]++
	}

	fmt.Fprintf(&sb, "Estimates: %d\n", len(estimates))

	for _, st := range estimate.Statuses {
		if n := byStatus[st]; n > 0 {
			fmt.Fprintf(&sb, "* %s: %d\n", st, n)
		}
	}

	fmt.Fprintf(&sb, "\nOrders: %d\n", len(orders))

	for _, o := range orders {
		fmt.Fprintf(&sb, "* #%d | %s | %s | %s | %s outstanding\n",
			o.ID, o.Customer, o.Status, o.Amount.StringFixed(2), o.Outstanding().StringFixed(2))
	}

	return sb.String()
}

func WriteCustomersCSV(w io.Writer, customers []*contact.Customer) error {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{id(c.ID), c.Name, c.Email, c.Phone, timestamp(c.CreatedAt)})
	}

	return writeCSV(w, customerColumns, rows)
}

func WriteVendorsCSV(w io.Writer, vendors []*contact.Vendor) error {
	rows := make([][]string, 0, len(vendors))
	for _, v := range vendors {
		rows = append(rows, []string{
			id(v.ID), v.Name, v.Contact, v.Email, v.Phone, v.Address, v.Category,
			v.Rating.String(), v.LeadTime, v.Notes, timestamp(v.CreatedAt),
		})
	}

	return writeCSV(w, vendorColumns, rows)
}

func WriteEstimatesCSV(w io.Writer, estimates []*estimate.Estimate) error {
	rows := make([][]string, 0, len(estimates))
	for _, e := range estimates {
		rows = append(rows, []string{
			id(e.ID), string(e.Status), e.Customer.Name, e.Customer.Email, e.Customer.Phone,
			strconv.Itoa(len(e.Items)),
			e.Totals.Subtotal.StringFixed(2), e.Totals.Tax.StringFixed(2), e.Totals.Total.StringFixed(2),
			timestamp(e.CreatedAt),
		})
	}

	return writeCSV(w, estimateColumns, rows)
}

func WriteOrdersCSV(w io.Writer, orders []*order.Order) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		estimateID := ""
		if o.EstimateID != nil {
			estimateID = id(*o.EstimateID)
		}

		rows = append(rows, []string{
			id(o.ID), string(o.Status), o.Customer, estimateID, o.Amount.StringFixed(2),
			string(o.PaymentStatus), o.PaymentReceived.StringFixed(2), o.Outstanding().StringFixed(2),
			strconv.Itoa(o.Progress), timestamp(o.CreatedAt),
		})
	}

	return writeCSV(w, orderColumns, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}
