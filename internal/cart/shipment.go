package cart

import (
	"github.com/shopspring/decimal"
)

// Shipment is one delivery line. Price is already a line total; the carried
// item keys are informational and never enter the allocation math.
type Shipment struct {
	ID           string
	Price        decimal.Decimal
	Weight       decimal.Decimal
	Vendor       string
	Method       string
	Taxable      bool
	Discountable bool
	ItemKeys     []string
}

// NewShipment constructs a shipment with the default flags (discountable,
// untaxed).
func NewShipment(id string, price decimal.Decimal) *Shipment {
	return &Shipment{ID: id, Price: price, Discountable: true}
}

// Key returns the cart key for this shipment.
func (s *Shipment) Key() string { return ShipmentKey(s.ID) }

// Code identifies the vendor/method combination, e.g. "ups_ground".
func (s *Shipment) Code() string { return s.Vendor + "_" + s.Method }

// AddItemKey records an item carried by this shipment.
func (s *Shipment) AddItemKey(key string) {
	for _, k := range s.ItemKeys {
		if k == key {
			return
		}
	}
	s.ItemKeys = append(s.ItemKeys, key)
}

// ResolveField exposes the shipment's condition-source fields.
func (s *Shipment) ResolveField(field string) (any, bool) {
	switch field {
	case "code":
		return s.Code(), true
	case "price":
		return s.Price, true
	case "weight":
		return s.Weight, true
	}
	return nil, false
}
