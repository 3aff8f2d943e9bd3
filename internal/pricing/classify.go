package pricing

import (
	"github.com/noah-isme/cart-engine/internal/cart"
)

// Buckets groups discounts of one timing by target.
type Buckets struct {
	Items     []*cart.Discount
	Shipments []*cart.Discount
	Specified []*cart.Discount
}

// Classification partitions a cart's discounts by timing and target, and
// records which line keys are claimed by specified discounts. Claimed lines
// are carved out of the general discountable pools so a specified and a
// general discount never double-discount the same line.
type Classification struct {
	PreTax  Buckets
	PostTax Buckets

	ClaimedItems     map[string]struct{}
	ClaimedShipments map[string]struct{}
}

// Classify partitions the discounts. Discounts with an unknown target are
// dropped: they can contribute to no bucket. No ordering or priority is
// resolved here; discounts of one bucket are summed, not sequenced.
func Classify(discounts []*cart.Discount) Classification {
	cl := Classification{
		ClaimedItems:     make(map[string]struct{}),
		ClaimedShipments: make(map[string]struct{}),
	}
	for _, d := range discounts {
		if d == nil {
			continue
		}
		b := &cl.PostTax
		if d.PreTax() {
			b = &cl.PreTax
		}
		switch d.Target {
		case cart.TargetItems:
			b.Items = append(b.Items, d)
		case cart.TargetShipments:
			b.Shipments = append(b.Shipments, d)
		case cart.TargetSpecified:
			b.Specified = append(b.Specified, d)
			for key := range d.Items {
				cl.ClaimedItems[key] = struct{}{}
			}
			for _, key := range d.Shipments {
				cl.ClaimedShipments[key] = struct{}{}
			}
		}
	}
	return cl
}

// ItemClaimed reports whether a specified discount references the item key.
func (cl Classification) ItemClaimed(key string) bool {
	_, ok := cl.ClaimedItems[key]
	return ok
}

// ShipmentClaimed reports whether a specified discount references the
// shipment key.
func (cl Classification) ShipmentClaimed(key string) bool {
	_, ok := cl.ClaimedShipments[key]
	return ok
}
