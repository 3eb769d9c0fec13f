// Package importer reads customer and vendor lists from CSV files exported by spreadsheets and
// other tools. Input in any common encoding is accepted; the delimiter and the header row
// are detected.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	enc "github.com/MrJamesThe3rd/dealdesk/internal/encoding"
)

type Kind string

const (
	KindCustomers Kind = "customers"
	KindVendors   Kind = "vendors"
)

var (
	ErrNoHeader   = errors.New("no header row found")
	ErrInvalidRow = errors.New("invalid row")
)

// headerScanRows bounds how far into a file the header row is searched for.
const headerScanRows = 10

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) ParseCustomers(r io.Reader) ([]contact.Customer, error) {
	rows, cols, start, err := read(r, customerProfile)
	if err != nil {
		return nil, err
	}

	var customers []contact.Customer

	for i, row := range rows {
		if blank(row) {
			continue
		}

		name := cols.value(row, fieldName)
		if name == "" {
			return nil, fmt.Errorf("%w: row %d: missing name", ErrInvalidRow, start+i+1)
		}

		customers = append(customers, contact.Customer{
			Name:  name,
			Email: cols.value(row, fieldEmail),
			Phone: cols.value(row, fieldPhone),
		})
	}

	return customers, nil
}

func (s *Service) ParseVendors(r io.Reader) ([]contact.Vendor, error) {
	rows, cols, start, err := read(r, vendorProfile)
	if err != nil {
		return nil, err
	}

	var vendors []contact.Vendor

	for i, row := range rows {
		if blank(row) {
			continue
		}

		name := cols.value(row, fieldName)
		if name == "" {
			return nil, fmt.Errorf("%w: row %d: missing name", ErrInvalidRow, start+i+1)
		}

		vendors = append(vendors, contact.Vendor{
			Name:     name,
			Contact:  cols.value(row, fieldContact),
			Email:    cols.value(row, fieldEmail),
			Phone:    cols.value(row, fieldPhone),
			Address:  cols.value(row, fieldAddress),
			Category: cols.value(row, fieldCategory),
			Rating:   parseRating(cols.value(row, fieldRating)),
			LeadTime: cols.value(row, fieldLeadTime),
			Notes:    cols.value(row, fieldNotes),
		})
	}

	return vendors, nil
}

// read decodes the input, finds the header row for the profile and returns the data rows
// below it with the 1-based line number of the header.
func read(r io.Reader, p Profile) ([][]string, colIndex, int, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("detect encoding: %w", err)
	}

	slog.Debug("reading contact file", "kind", p.Kind, "charset", utf8r.Charset, "bom", utf8r.BOM)

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: read csv: %w", ErrInvalidRow, err)
	}

	for i, row := range rows[:min(len(rows), headerScanRows)] {
		if cols, ok := p.match(row); ok {
			return rows[i+1:], cols, i + 1, nil
		}
	}

	return nil, nil, 0, fmt.Errorf("%w: %s files need a name column", ErrNoHeader, p.Kind)
}

// sniffDelimiter picks ';' when the first line has more semicolons than commas.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)

	line, _, _ := bytes.Cut(peek, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}

	return ','
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// parseRating accepts "4.5" and "4,5"; anything else is zero.
func parseRating(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero
	}

	return d
}
