package importer

import "strings"

// field names a contact attribute a CSV column can map to.
type field string

const (
	fieldName     field = "name"
	fieldContact  field = "contact"
	fieldEmail    field = "email"
	fieldPhone    field = "phone"
	fieldAddress  field = "address"
	fieldCategory field = "category"
	fieldRating   field = "rating"
	fieldLeadTime field = "leadTime"
	fieldNotes    field = "notes"
)

// Profile describes which header labels are accepted for each field of one kind of file.
// Labels are compared case-insensitively with surrounding spaces trimmed.
type Profile struct {
	Kind     Kind
	Required []field
	Aliases  map[field][]string
}

var customerProfile = Profile{
	Kind:     KindCustomers,
	Required: []field{fieldName},
	Aliases: map[field][]string{
		fieldName:  {"name", "customer", "customer name", "company"},
		fieldEmail: {"email", "e-mail", "email address"},
		fieldPhone: {"phone", "telephone", "mobile", "phone number"},
	},
}

var vendorProfile = Profile{
	Kind:     KindVendors,
	Required: []field{fieldName},
	Aliases: map[field][]string{
		fieldName:     {"name", "vendor", "vendor name", "supplier", "company"},
		fieldContact:  {"contact", "contact person", "contact name"},
		fieldEmail:    {"email", "e-mail", "email address"},
		fieldPhone:    {"phone", "telephone", "mobile", "phone number"},
		fieldAddress:  {"address", "location"},
		fieldCategory: {"category", "type"},
		fieldRating:   {"rating", "score"},
		fieldLeadTime: {"leadtime", "lead time", "lead_time"},
		fieldNotes:    {"notes", "note", "comments"},
	},
}

// colIndex maps fields to their column index in a row.
type colIndex map[field]int

// match maps a header row onto the profile. It reports false when a required field is missing.
func (p Profile) match(header []string) (colIndex, bool) {
	cols := make(colIndex)

	for i, cell := range header {
		label := strings.ToLower(strings.TrimSpace(cell))
		if label == "" {
			continue
		}

		for f, aliases := range p.Aliases {
			if _, seen := cols[f]; seen {
				continue
			}

			for _, alias := range aliases {
				if label == alias {
					cols[f] = i
					break
				}
			}
		}
	}

	for _, f := range p.Required {
		if _, ok := cols[f]; !ok {
			return nil, false
		}
	}

	return cols, true
}

func (c colIndex) value(row []string, f field) string {
	idx, ok := c[f]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
