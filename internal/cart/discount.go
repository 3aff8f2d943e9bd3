package cart

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/cart-engine/internal/rule"
)

// Kind selects how a discount value is interpreted.
type Kind string

// Discount value kinds.
const (
	KindFlat    Kind = "flat"
	KindPercent Kind = "percent"
)

// Target selects which lines a discount touches.
type Target string

// Discount targets.
const (
	TargetItems     Target = "items"
	TargetShipments Target = "shipments"
	TargetSpecified Target = "specified"
)

// Timing selects whether a discount applies before or after tax.
type Timing string

// Discount timings.
const (
	TimingPreTax  Timing = "pre_tax"
	TimingPostTax Timing = "post_tax"
)

// Discount is one rule reducing the cart total. Value is a money amount for
// flat discounts and a ratio (0.5 = 50%) for percent discounts. Items and
// Shipments are only meaningful for the specified target: item key → claimed
// quantity, and a set of shipment keys. Condition, when set, gates automatic
// application through the rule evaluator.
type Discount struct {
	ID        string
	Value     decimal.Decimal
	Kind      Kind
	Target    Target
	Timing    Timing
	Items     map[string]int
	Shipments []string
	Condition rule.Term
}

// NewDiscount constructs a flat pre-tax discount against items.
func NewDiscount(id string, value decimal.Decimal) *Discount {
	return &Discount{
		ID:     id,
		Value:  value,
		Kind:   KindFlat,
		Target: TargetItems,
		Timing: TimingPreTax,
	}
}

// Key returns the cart key for this discount.
func (d *Discount) Key() string { return DiscountKey(d.ID) }

// PreTax reports whether the discount applies before tax. Anything but an
// explicit post_tax timing counts as pre-tax.
func (d *Discount) PreTax() bool { return d.Timing != TimingPostTax }

// AddItem claims qty units of the item key for a specified discount.
func (d *Discount) AddItem(itemKey string, qty int) *Discount {
	if d.Items == nil {
		d.Items = make(map[string]int)
	}
	d.Items[itemKey] = qty
	return d
}

// AddShipment claims a shipment key for a specified discount.
func (d *Discount) AddShipment(shipmentKey string) *Discount {
	for _, k := range d.Shipments {
		if k == shipmentKey {
			return d
		}
	}
	d.Shipments = append(d.Shipments, shipmentKey)
	return d
}
