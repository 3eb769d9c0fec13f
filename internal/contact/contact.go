package contact

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("contact not found")
	ErrNameRequired = errors.New("name is required")
)

type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

type Vendor struct {
	ID        int64
	Name      string
	Contact   string // Person to talk to at the vendor
	Email     string
	Phone     string
	Address   string
	Category  string
	Rating    decimal.Decimal
	LeadTime  string
	Notes     string
	CreatedAt time.Time
}
