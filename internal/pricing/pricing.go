// Package pricing computes order totals from catalog prices, an optional
// coupon and a tax rate. All money is decimal and every amount is rounded
// to cents, half away from zero, as soon as it is produced.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownItem is returned when the catalog has no such product variant.
	ErrUnknownItem = errors.New("unknown product variant")
	// ErrDuplicateCoupon is returned by NewPercentCoupons for codes that
	// differ only in case.
	ErrDuplicateCoupon = errors.New("duplicate coupon code")
)

const cents = 2

// Item is what the catalog knows about one purchasable variant.
type Item struct {
	ProductName string
	VariantName string
	UnitPrice   decimal.Decimal
}

// Catalog resolves a product variant to its current name and price.
type Catalog interface {
	Price(ctx context.Context, productID, variantID string) (Item, error)
}

// Line is one requested order line.
type Line struct {
	ProductID string
	VariantID string
	Quantity  int
}

// PricedLine is a Line with catalog data and its total.
type PricedLine struct {
	Line
	Item
	Total decimal.Decimal
}

// Quote is the priced result of an order.
type Quote struct {
	Lines    []PricedLine
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Discounter maps a coupon code to a discount on subtotal.
type Discounter interface {
	Discount(code string, subtotal decimal.Decimal) decimal.Decimal
}

// NoDiscount ignores every coupon.
type NoDiscount struct{}

func (NoDiscount) Discount(string, decimal.Decimal) decimal.Decimal { return decimal.Zero }

// PercentCoupons gives a percentage off the subtotal per coupon code.
// Keys are upper case; build it with [NewPercentCoupons] to normalize
// configured codes. Unknown codes give nothing.
type PercentCoupons map[string]decimal.Decimal

// NewPercentCoupons upper-cases every code. Two codes that differ only in
// case are rejected.
func NewPercentCoupons(percents map[string]decimal.Decimal) (PercentCoupons, error) {
	c := make(PercentCoupons, len(percents))
	for code, pct := range percents {
		key := couponKey(code)
		if _, dup := c[key]; dup {
			return nil, fmt.Errorf("coupon %q: %w", code, ErrDuplicateCoupon)
		}
		c[key] = pct
	}
	return c, nil
}

func couponKey(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

func (c PercentCoupons) Discount(code string, subtotal decimal.Decimal) decimal.Decimal {
	pct, ok := c[couponKey(code)]
	if !ok {
		return decimal.Zero
	}
	return subtotal.Mul(pct).Div(decimal.NewFromInt(100)).Round(cents)
}

// Policy prices orders.
type Policy struct {
	Catalog    Catalog
	Discounter Discounter
	TaxRate    decimal.Decimal
}

// Quote prices lines and applies coupon. The discount never exceeds the
// subtotal and tax is charged on the discounted amount.
func (p Policy) Quote(ctx context.Context, lines []Line, coupon string) (Quote, error) {
	q := Quote{Lines: make([]PricedLine, 0, len(lines)), Subtotal: decimal.Zero}
	for _, l := range lines {
		if l.Quantity < 1 {
			return Quote{}, fmt.Errorf("price %s/%s: quantity %d", l.ProductID, l.VariantID, l.Quantity)
		}
		item, err := p.Catalog.Price(ctx, l.ProductID, l.VariantID)
		if err != nil {
			return Quote{}, fmt.Errorf("price %s/%s: %w", l.ProductID, l.VariantID, err)
		}
		item.UnitPrice = item.UnitPrice.Round(cents)
		total := item.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(cents)
		q.Lines = append(q.Lines, PricedLine{Line: l, Item: item, Total: total})
		q.Subtotal = q.Subtotal.Add(total)
	}

	q.Discount = decimal.Zero
	if coupon != "" && p.Discounter != nil {
		q.Discount = decimal.Min(p.Discounter.Discount(coupon, q.Subtotal), q.Subtotal).Round(cents)
	}
	taxable := q.Subtotal.Sub(q.Discount)
	q.Tax = taxable.Mul(p.TaxRate).Round(cents)
	q.Total = taxable.Add(q.Tax).Round(cents)
	return q, nil
}

// FixedCatalog is an in-memory Catalog keyed by variant id.
type FixedCatalog map[string]Item

func (c FixedCatalog) Price(_ context.Context, _, variantID string) (Item, error) {
	item, ok := c[variantID]
	if !ok {
		return Item{}, ErrUnknownItem
	}
	return item, nil
}
