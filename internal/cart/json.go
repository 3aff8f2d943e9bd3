package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/cart-engine/internal/rule"
)

type itemJSON struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Qty          int             `json:"qty"`
	Weight       decimal.Decimal `json:"weight,omitempty"`
	CategoryIDs  []string        `json:"category_ids,omitempty"`
	Taxable      bool            `json:"is_taxable"`
	Discountable bool            `json:"is_discountable"`
}

type shipmentJSON struct {
	ID           string          `json:"id"`
	Price        decimal.Decimal `json:"price"`
	Weight       decimal.Decimal `json:"weight,omitempty"`
	Vendor       string          `json:"vendor,omitempty"`
	Method       string          `json:"method,omitempty"`
	Taxable      bool            `json:"is_taxable"`
	Discountable bool            `json:"is_discountable"`
	ItemKeys     []string        `json:"item_keys,omitempty"`
}

type discountJSON struct {
	ID        string          `json:"id"`
	Value     decimal.Decimal `json:"value"`
	Kind      Kind            `json:"as"`
	Target    Target          `json:"to"`
	Timing    Timing          `json:"timing"`
	Items     map[string]int  `json:"items,omitempty"`
	Shipments []string        `json:"shipments,omitempty"`
	Condition json.RawMessage `json:"condition,omitempty"`
}

type customerJSON struct {
	ID            string `json:"id"`
	Group         string `json:"group,omitempty"`
	BillingState  string `json:"billing_state,omitempty"`
	ShippingState string `json:"shipping_state,omitempty"`
}

type cartJSON struct {
	Items               []itemJSON      `json:"items"`
	Shipments           []shipmentJSON  `json:"shipments"`
	Discounts           []discountJSON  `json:"discounts"`
	Customer            *customerJSON   `json:"customer,omitempty"`
	TaxRate             decimal.Decimal `json:"tax_rate"`
	IncludeTax          bool            `json:"include_tax"`
	DiscountTaxableLast *bool           `json:"discount_taxable_last,omitempty"`
	Precision           *int32          `json:"precision,omitempty"`
	CalcPrecision       *int32          `json:"calculator_precision,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c *Cart) MarshalJSON() ([]byte, error) {
	out := cartJSON{
		Items:               make([]itemJSON, 0, len(c.Items)),
		Shipments:           make([]shipmentJSON, 0, len(c.Shipments)),
		Discounts:           make([]discountJSON, 0, len(c.Discounts)),
		TaxRate:             c.TaxRate,
		IncludeTax:          c.IncludeTax,
		DiscountTaxableLast: &c.DiscountTaxableLast,
		Precision:           &c.Precision,
		CalcPrecision:       &c.CalcPrecision,
	}
	for _, it := range c.Items {
		out.Items = append(out.Items, itemJSON{
			ID:           it.ID,
			SKU:          it.SKU,
			Price:        it.Price,
			Qty:          it.Qty,
			Weight:       it.Weight,
			CategoryIDs:  it.CategoryIDs,
			Taxable:      it.Taxable,
			Discountable: it.Discountable,
		})
	}
	for _, s := range c.Shipments {
		out.Shipments = append(out.Shipments, shipmentJSON{
			ID:           s.ID,
			Price:        s.Price,
			Weight:       s.Weight,
			Vendor:       s.Vendor,
			Method:       s.Method,
			Taxable:      s.Taxable,
			Discountable: s.Discountable,
			ItemKeys:     s.ItemKeys,
		})
	}
	for _, d := range c.Discounts {
		dj := discountJSON{
			ID:        d.ID,
			Value:     d.Value,
			Kind:      d.Kind,
			Target:    d.Target,
			Timing:    d.Timing,
			Items:     d.Items,
			Shipments: d.Shipments,
		}
		if d.Condition != nil {
			raw, err := rule.MarshalTerm(d.Condition)
			if err != nil {
				return nil, fmt.Errorf("discount %s condition: %w", d.ID, err)
			}
			dj.Condition = raw
		}
		out.Discounts = append(out.Discounts, dj)
	}
	if c.Customer != nil {
		out.Customer = &customerJSON{
			ID:            c.Customer.ID,
			Group:         c.Customer.Group,
			BillingState:  c.Customer.BillingState,
			ShippingState: c.Customer.ShippingState,
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. Absent flags fall back to the
// defaults of New, except the precisions: those stay zero when the payload
// omits them, so callers can install their own defaults before the accessors
// fall back to the package constants.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var in cartJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}
	next := &Cart{DiscountTaxableLast: true}
	next.TaxRate = in.TaxRate
	next.IncludeTax = in.IncludeTax
	if in.DiscountTaxableLast != nil {
		next.DiscountTaxableLast = *in.DiscountTaxableLast
	}
	if in.Precision != nil && *in.Precision > 0 {
		next.Precision = *in.Precision
	}
	if in.CalcPrecision != nil && *in.CalcPrecision > 0 {
		next.CalcPrecision = *in.CalcPrecision
	}
	for _, it := range in.Items {
		next.AddItem(&Item{
			ID:           it.ID,
			SKU:          it.SKU,
			Price:        it.Price,
			Qty:          it.Qty,
			Weight:       it.Weight,
			CategoryIDs:  it.CategoryIDs,
			Taxable:      it.Taxable,
			Discountable: it.Discountable,
		})
	}
	for _, s := range in.Shipments {
		next.AddShipment(&Shipment{
			ID:           s.ID,
			Price:        s.Price,
			Weight:       s.Weight,
			Vendor:       s.Vendor,
			Method:       s.Method,
			Taxable:      s.Taxable,
			Discountable: s.Discountable,
			ItemKeys:     s.ItemKeys,
		})
	}
	for _, d := range in.Discounts {
		discount := &Discount{
			ID:        d.ID,
			Value:     d.Value,
			Kind:      d.Kind,
			Target:    d.Target,
			Timing:    d.Timing,
			Items:     d.Items,
			Shipments: d.Shipments,
		}
		if len(d.Condition) > 0 {
			term, err := rule.UnmarshalTerm(d.Condition)
			if err != nil {
				return fmt.Errorf("discount %s condition: %w", d.ID, err)
			}
			discount.Condition = term
		}
		next.AddDiscount(discount)
	}
	if in.Customer != nil {
		next.Customer = &Customer{
			ID:            in.Customer.ID,
			Group:         in.Customer.Group,
			BillingState:  in.Customer.BillingState,
			ShippingState: in.Customer.ShippingState,
		}
	}
	*c = *next
	return nil
}
