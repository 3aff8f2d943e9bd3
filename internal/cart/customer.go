package cart

// Customer carries the buyer attributes condition trees can test. The
// pricing math never reads it.
type Customer struct {
	ID            string
	Group         string
	BillingState  string
	ShippingState string
}

// ResolveField exposes the customer's condition-source fields.
func (c *Customer) ResolveField(field string) (any, bool) {
	switch field {
	case "group":
		return c.Group, true
	case "billing_state":
		return c.BillingState, true
	case "shipping_state":
		return c.ShippingState, true
	}
	return nil, false
}
