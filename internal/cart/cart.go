// Package cart holds the pricing entities: items, shipments, discounts, the
// optional customer, and the cart snapshot binding them together with the
// tax configuration. The calculator consumes carts read-only; callers
// serialize mutation against computation.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/cart-engine/internal/money"
)

// Key prefixes keep item, shipment, and discount identifiers from colliding
// in specified-discount references.
const (
	itemKeyPrefix     = "item-"
	shipmentKeyPrefix = "shipment-"
	discountKeyPrefix = "discount-"
)

// ItemKey returns the cart key for an item id.
func ItemKey(id string) string { return itemKeyPrefix + id }

// ShipmentKey returns the cart key for a shipment id.
func ShipmentKey(id string) string { return shipmentKeyPrefix + id }

// DiscountKey returns the cart key for a discount id.
func DiscountKey(id string) string { return discountKeyPrefix + id }

// Cart is one pricing snapshot.
type Cart struct {
	Items     []*Item
	Shipments []*Shipment
	Discounts []*Discount
	Customer  *Customer

	TaxRate             decimal.Decimal
	IncludeTax          bool
	DiscountTaxableLast bool

	// Precision is the display precision of the totals report;
	// CalcPrecision the higher precision used for intermediates.
	Precision     int32
	CalcPrecision int32
}

// New constructs an empty cart with the default precisions, tax disabled,
// and the discount-taxable-last tax policy.
func New() *Cart {
	return &Cart{
		DiscountTaxableLast: true,
		Precision:           money.DefaultPrecision,
		CalcPrecision:       money.DefaultCalcPrecision,
	}
}

// AddItem appends an item, replacing any existing item with the same key.
func (c *Cart) AddItem(it *Item) *Cart {
	if it == nil {
		return c
	}
	for i, existing := range c.Items {
		if existing.Key() == it.Key() {
			c.Items[i] = it
			return c
		}
	}
	c.Items = append(c.Items, it)
	return c
}

// RemoveItem drops the item with the given id.
func (c *Cart) RemoveItem(id string) *Cart {
	key := ItemKey(id)
	for i, it := range c.Items {
		if it.Key() == key {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return c
		}
	}
	return c
}

// Item looks up an item by cart key.
func (c *Cart) Item(key string) *Item {
	for _, it := range c.Items {
		if it.Key() == key {
			return it
		}
	}
	return nil
}

// AddShipment appends a shipment, replacing any existing one with the same
// key.
func (c *Cart) AddShipment(s *Shipment) *Cart {
	if s == nil {
		return c
	}
	for i, existing := range c.Shipments {
		if existing.Key() == s.Key() {
			c.Shipments[i] = s
			return c
		}
	}
	c.Shipments = append(c.Shipments, s)
	return c
}

// RemoveShipment drops the shipment with the given id.
func (c *Cart) RemoveShipment(id string) *Cart {
	key := ShipmentKey(id)
	for i, s := range c.Shipments {
		if s.Key() == key {
			c.Shipments = append(c.Shipments[:i], c.Shipments[i+1:]...)
			return c
		}
	}
	return c
}

// Shipment looks up a shipment by cart key.
func (c *Cart) Shipment(key string) *Shipment {
	for _, s := range c.Shipments {
		if s.Key() == key {
			return s
		}
	}
	return nil
}

// AddDiscount appends a discount, replacing any existing one with the same
// key.
func (c *Cart) AddDiscount(d *Discount) *Cart {
	if d == nil {
		return c
	}
	for i, existing := range c.Discounts {
		if existing.Key() == d.Key() {
			c.Discounts[i] = d
			return c
		}
	}
	c.Discounts = append(c.Discounts, d)
	return c
}

// RemoveDiscount drops the discount with the given id.
func (c *Cart) RemoveDiscount(id string) *Cart {
	key := DiscountKey(id)
	for i, d := range c.Discounts {
		if d.Key() == key {
			c.Discounts = append(c.Discounts[:i], c.Discounts[i+1:]...)
			return c
		}
	}
	return c
}

// Discount looks up a discount by cart key.
func (c *Cart) Discount(key string) *Discount {
	for _, d := range c.Discounts {
		if d.Key() == key {
			return d
		}
	}
	return nil
}

// DisplayPrecision returns the report precision, falling back to the
// default when unset.
func (c *Cart) DisplayPrecision() int32 {
	if c.Precision <= 0 {
		return money.DefaultPrecision
	}
	return c.Precision
}

// CalculatorPrecision returns the intermediate precision, falling back to
// the default when unset or not above the display precision.
func (c *Cart) CalculatorPrecision() int32 {
	display := c.DisplayPrecision()
	calc := c.CalcPrecision
	if calc <= 0 {
		calc = money.DefaultCalcPrecision
	}
	if calc < display {
		calc = display
	}
	return calc
}
