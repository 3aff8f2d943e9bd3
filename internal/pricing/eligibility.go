package pricing

import (
	"github.com/noah-isme/cart-engine/internal/cart"
	"github.com/noah-isme/cart-engine/internal/rule"
)

// ApplicableDiscounts filters the cart's discounts down to those that
// apply: discounts without a condition always apply; a discount carrying a
// condition tree applies when some entity of the tree's declared kind in the
// cart satisfies it. Customer trees require the cart's customer. The
// evaluation is fail-closed, so an invalid condition reads as "does not
// apply" — callers needing to distinguish misconfiguration must validate
// before pricing.
func ApplicableDiscounts(c *cart.Cart) []*cart.Discount {
	out := make([]*cart.Discount, 0, len(c.Discounts))
	for _, d := range c.Discounts {
		if d == nil {
			continue
		}
		if d.Condition == nil || conditionMatches(c, d.Condition) {
			out = append(out, d)
		}
	}
	return out
}

func conditionMatches(c *cart.Cart, t rule.Term) bool {
	switch t.Entity() {
	case rule.EntityItem:
		for _, it := range c.Items {
			if rule.Evaluate(t, it) {
				return true
			}
		}
	case rule.EntityShipment:
		for _, s := range c.Shipments {
			if rule.Evaluate(t, s) {
				return true
			}
		}
	case rule.EntityCustomer:
		if c.Customer != nil {
			return rule.Evaluate(t, c.Customer)
		}
	}
	return false
}
