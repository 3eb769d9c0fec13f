// Package pricing reconciles cost, margin and selling price on estimate line items and rolls
// line items up into estimate totals.
//
// Every function here is pure and total: malformed input degrades to zero instead of
// failing, because the same code backs live editing of an estimate form.
package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultTaxRate is the tax percentage a new estimate starts with.
	DefaultTaxRate = 18
	// DefaultMargin is the margin percentage a new line item starts with.
	DefaultMargin = 25

	moneyPlaces  = 2
	marginPlaces = 4
)

var hundred = decimal.NewFromInt(100)

// Field identifies which line item field an edit touched.
type Field string

const (
	FieldDescription  Field = "description"
	FieldQuantity     Field = "quantity"
	FieldCostPrice    Field = "costPrice"
	FieldMargin       Field = "margin"
	FieldSellingPrice Field = "sellingPrice"
)

// LineItem is a single priced row of an estimate. Margin is a percentage markup on CostPrice.
type LineItem struct {
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Margin       decimal.Decimal `json:"margin"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

// NewLineItem returns an empty line item with the default margin applied.
func NewLineItem() LineItem {
	return LineItem{
		Quantity: 1,
		Margin:   decimal.NewFromInt(DefaultMargin),
	}
}

// Totals is the derived roll-up of a set of line items. It is recomputed on every save.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Total       decimal.Decimal `json:"total"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
}

// ComputeLineItem reconciles the price fields of item after changed was edited.
//
// Editing cost or margin derives the selling price. Editing the selling price derives the
// margin, unless the cost is zero, in which case the margin is left as it was.
// Quantity never takes part in the reconciliation.
func ComputeLineItem(item LineItem, changed Field) LineItem {
	switch changed {
	case FieldCostPrice, FieldMargin:
		item.SellingPrice = SellingPrice(item.CostPrice, item.Margin)
	case FieldSellingPrice:
		if item.CostPrice.IsPositive() {
			item.Margin = MarginFor(item.CostPrice, item.SellingPrice)
		}
	}

	return item
}

// SellingPrice returns cost * (1 + margin/100) rounded to cents.
func SellingPrice(cost, margin decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(margin.Div(hundred))
	return cost.Mul(factor).Round(moneyPlaces)
}

// MarginFor returns the percentage markup that turns cost into selling.
// A non-positive cost yields zero.
func MarginFor(cost, selling decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}

	return selling.Sub(cost).Div(cost).Mul(hundred).Round(marginPlaces)
}

// ComputeTotals rolls items up into Totals. Tax is zero when taxEnabled is false; the rate is
// still recorded so it survives toggling tax back on.
func ComputeTotals(items []LineItem, taxRate decimal.Decimal, taxEnabled bool) Totals {
	subtotal := decimal.Zero
	totalCost := decimal.Zero

	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(item.SellingPrice.Mul(qty))
		totalCost = totalCost.Add(item.CostPrice.Mul(qty))
	}

	tax := decimal.Zero
	if taxEnabled {
		tax = subtotal.Mul(taxRate).Div(hundred).Round(moneyPlaces)
	}

	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		TaxRate:     taxRate,
		Total:       subtotal.Add(tax),
		TotalCost:   totalCost,
		TotalProfit: subtotal.Sub(totalCost),
	}
}

// Apply sets field on item from raw user input and reconciles the result.
func Apply(item LineItem, field Field, raw string) LineItem {
	switch field {
	case FieldDescription:
		item.Description = raw
	case FieldQuantity:
		item.Quantity = ParseQuantity(raw)
	case FieldCostPrice:
		item.CostPrice = ParseAmount(raw)
	case FieldMargin:
		item.Margin = ParseAmount(raw)
	case FieldSellingPrice:
		item.SellingPrice = ParseAmount(raw)
	}

	return ComputeLineItem(item, field)
}

// ParseAmount parses a decimal number, returning zero for anything that is not one.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}

	return d
}

// ParseQuantity parses a whole quantity. Fractions are truncated and garbage becomes zero.
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	return int(ParseAmount(s).IntPart())
}
