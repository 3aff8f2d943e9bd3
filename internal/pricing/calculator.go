// Package pricing computes cart totals: item and shipment subtotals,
// taxable subtotals, discount allocation with capping and specified-set
// carve-outs, and the tax-after-discount amount. The calculator is a pure
// function of an immutable cart snapshot; it holds no state between calls
// and never returns errors; malformed configuration degrades to a
// conservative zero.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/cart-engine/internal/cart"
	"github.com/noah-isme/cart-engine/internal/money"
)

// Totals is the display-precision report for one cart.
type Totals struct {
	Items     string `json:"items"`
	Shipments string `json:"shipments"`
	Discounts string `json:"discounts"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
}

// Calculator computes totals for one cart snapshot. Intermediates are
// rounded to the cart's calculator precision; only the report values are
// rounded to display precision.
type Calculator struct {
	cart  *cart.Cart
	class Classification
	prec  int32
}

// NewCalculator builds a calculator over the cart, classifying its
// discounts once.
func NewCalculator(c *cart.Cart) *Calculator {
	return &Calculator{
		cart:  c,
		class: Classify(c.Discounts),
		prec:  c.CalculatorPrecision(),
	}
}

func (k *Calculator) round(d decimal.Decimal) decimal.Decimal {
	return money.Round(d, k.prec)
}

// Totals produces the full report at display precision.
func (k *Calculator) Totals() Totals {
	p := k.cart.DisplayPrecision()
	return Totals{
		Items:     money.Format(k.ItemTotal(), p),
		Shipments: money.Format(k.ShipmentTotal(), p),
		Discounts: money.Format(k.DiscountTotal(), p),
		Tax:       money.Format(k.TaxTotal(), p),
		Total:     money.Format(k.Total(), p),
	}
}

// Total is items + shipments + tax - discounts. Post-tax discounts are part
// of the discount total and are never subtracted a second time; shipments
// are never taxed or discounted after tax is computed.
func (k *Calculator) Total() decimal.Decimal {
	return k.round(k.ItemTotal().
		Add(k.ShipmentTotal()).
		Add(k.TaxTotal()).
		Sub(k.DiscountTotal()))
}

// ItemTotal sums price times quantity over all items.
func (k *Calculator) ItemTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range k.cart.Items {
		total = total.Add(k.round(it.Total()))
	}
	return k.round(total)
}

// ShipmentTotal sums shipment line prices.
func (k *Calculator) ShipmentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range k.cart.Shipments {
		total = total.Add(k.round(s.Price))
	}
	return k.round(total)
}

// TaxableItemTotal sums price times quantity over taxable items.
func (k *Calculator) TaxableItemTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range k.cart.Items {
		if it.Taxable {
			total = total.Add(k.round(it.Total()))
		}
	}
	return k.round(total)
}

// TaxableShipmentTotal sums prices of taxable shipments.
func (k *Calculator) TaxableShipmentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range k.cart.Shipments {
		if s.Taxable {
			total = total.Add(k.round(s.Price))
		}
	}
	return k.round(total)
}

// DiscountableItemTotal sums price times quantity over discountable items,
// optionally skipping lines claimed by a specified discount.
func (k *Calculator) DiscountableItemTotal(excludeSpecified bool) decimal.Decimal {
	total := decimal.Zero
	for _, it := range k.cart.Items {
		if !it.Discountable {
			continue
		}
		if excludeSpecified && k.class.ItemClaimed(it.Key()) {
			continue
		}
		total = total.Add(k.round(it.Total()))
	}
	return k.round(total)
}

// DiscountableShipmentTotal sums prices of discountable shipments,
// optionally skipping lines claimed by a specified discount.
func (k *Calculator) DiscountableShipmentTotal(excludeSpecified bool) decimal.Decimal {
	total := decimal.Zero
	for _, s := range k.cart.Shipments {
		if !s.Discountable {
			continue
		}
		if excludeSpecified && k.class.ShipmentClaimed(s.Key()) {
			continue
		}
		total = total.Add(k.round(s.Price))
	}
	return k.round(total)
}

// generalDiscount sums one general bucket against its discountable pool:
// flat rules contribute their value, percent rules value times the pool.
// The sum is capped at the pool — a discount can never discount more than
// exists to discount.
func (k *Calculator) generalDiscount(rules []*cart.Discount, pool decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range rules {
		value := k.round(d.Value)
		if d.Kind == cart.KindPercent {
			total = total.Add(k.round(value.Mul(pool)))
		} else {
			total = total.Add(value)
		}
	}
	total = money.Min(total, pool)
	return k.round(money.Clamp(total))
}

// specifiedPortions computes, for one timing bucket, the specified discount
// contributions split per target. A percent rule contributes against the
// totals of its own referenced lines only (quantity clamped to what the cart
// holds, non-discountable and unresolvable references skipped). A flat rule
// contributes its value once, attributed to the item side when it references
// any items, else to the shipment side.
func (k *Calculator) specifiedPortions(rules []*cart.Discount) (items, shipments decimal.Decimal) {
	items, shipments = decimal.Zero, decimal.Zero
	for _, d := range rules {
		itemBase := decimal.Zero
		for key, qty := range d.Items {
			it := k.cart.Item(key)
			if it == nil || !it.Discountable {
				continue
			}
			if it.Qty < qty {
				qty = it.Qty
			}
			if qty <= 0 {
				continue
			}
			itemBase = itemBase.Add(k.round(it.Price.Mul(decimal.NewFromInt(int64(qty)))))
		}
		shipmentBase := decimal.Zero
		for _, key := range d.Shipments {
			s := k.cart.Shipment(key)
			if s == nil || !s.Discountable {
				continue
			}
			shipmentBase = shipmentBase.Add(k.round(s.Price))
		}

		if d.Kind == cart.KindPercent {
			value := k.round(d.Value)
			items = items.Add(k.round(value.Mul(itemBase)))
			shipments = shipments.Add(k.round(value.Mul(shipmentBase)))
			continue
		}
		if len(d.Items) > 0 {
			items = items.Add(k.round(d.Value))
		} else if len(d.Shipments) > 0 {
			shipments = shipments.Add(k.round(d.Value))
		}
	}
	return k.round(money.Clamp(items)), k.round(money.Clamp(shipments))
}

// ItemDiscountTotal sums the general pre- and post-tax item buckets, capped
// at the full discountable item total.
func (k *Calculator) ItemDiscountTotal() decimal.Decimal {
	pool := k.DiscountableItemTotal(true)
	total := k.generalDiscount(k.class.PreTax.Items, pool).
		Add(k.generalDiscount(k.class.PostTax.Items, pool))
	return k.round(money.Min(total, k.DiscountableItemTotal(false)))
}

// ShipmentDiscountTotal sums the general pre- and post-tax shipment
// buckets, capped at the full discountable shipment total.
func (k *Calculator) ShipmentDiscountTotal() decimal.Decimal {
	pool := k.DiscountableShipmentTotal(true)
	total := k.generalDiscount(k.class.PreTax.Shipments, pool).
		Add(k.generalDiscount(k.class.PostTax.Shipments, pool))
	return k.round(money.Min(total, k.DiscountableShipmentTotal(false)))
}

// SpecifiedDiscountTotal sums specified contributions of both timings. Each
// specified rule is capped only implicitly by its own referenced lines.
func (k *Calculator) SpecifiedDiscountTotal() decimal.Decimal {
	preItems, preShipments := k.specifiedPortions(k.class.PreTax.Specified)
	postItems, postShipments := k.specifiedPortions(k.class.PostTax.Specified)
	return k.round(preItems.Add(preShipments).Add(postItems).Add(postShipments))
}

// DiscountTotal is the reported discount amount: general item and shipment
// totals plus specified contributions, capped at everything discountable in
// the cart.
func (k *Calculator) DiscountTotal() decimal.Decimal {
	total := k.ItemDiscountTotal().
		Add(k.ShipmentDiscountTotal()).
		Add(k.SpecifiedDiscountTotal())
	limit := k.DiscountableItemTotal(false).Add(k.DiscountableShipmentTotal(false))
	return k.round(money.Clamp(money.Min(total, limit)))
}

// preTaxItemDiscount is the pre-tax amount reducing the taxable item base:
// the general pre-tax item bucket plus pre-tax specified item portions,
// capped at the full discountable item total.
func (k *Calculator) preTaxItemDiscount() decimal.Decimal {
	general := k.generalDiscount(k.class.PreTax.Items, k.DiscountableItemTotal(true))
	specified, _ := k.specifiedPortions(k.class.PreTax.Specified)
	return k.round(money.Min(general.Add(specified), k.DiscountableItemTotal(false)))
}

// preTaxShipmentDiscount mirrors preTaxItemDiscount for shipments.
func (k *Calculator) preTaxShipmentDiscount() decimal.Decimal {
	general := k.generalDiscount(k.class.PreTax.Shipments, k.DiscountableShipmentTotal(true))
	_, specified := k.specifiedPortions(k.class.PreTax.Specified)
	return k.round(money.Min(general.Add(specified), k.DiscountableShipmentTotal(false)))
}

// TaxTotal computes tax over the discounted taxable bases of items and
// shipments. With the discount-taxable-last policy, a pre-tax discount only
// erodes the taxable base where the taxable and discounted portions overlap
// beyond the raw total; otherwise the discount is subtracted directly. The
// discount-first policy subtracts directly and floors each base at zero
// independently.
func (k *Calculator) TaxTotal() decimal.Decimal {
	if !k.cart.IncludeTax {
		return decimal.Zero
	}

	var itemBase, shipmentBase decimal.Decimal
	if k.cart.DiscountTaxableLast {
		itemBase = k.overlapBase(k.TaxableItemTotal(), k.preTaxItemDiscount(), k.ItemTotal())
		shipmentBase = k.overlapBase(k.TaxableShipmentTotal(), k.preTaxShipmentDiscount(), k.ShipmentTotal())
	} else {
		itemBase = money.Clamp(k.TaxableItemTotal().Sub(k.preTaxItemDiscount()))
		shipmentBase = money.Clamp(k.TaxableShipmentTotal().Sub(k.preTaxShipmentDiscount()))
	}

	taxable := k.round(money.Clamp(itemBase.Add(shipmentBase)))
	return k.round(money.Clamp(k.cart.TaxRate.Mul(taxable)))
}

// overlapBase reduces a taxable total by a pre-tax discount under the
// discount-taxable-last policy. When taxable + discount exceeds the raw
// total, only the overlap erodes the taxable base.
func (k *Calculator) overlapBase(taxable, preDiscount, raw decimal.Decimal) decimal.Decimal {
	if taxable.Add(preDiscount).GreaterThan(raw) {
		overlap := k.round(taxable.Add(preDiscount).Sub(raw))
		return k.round(taxable.Sub(overlap))
	}
	return k.round(taxable.Sub(preDiscount))
}

// DiscountedItemTotal is the item total after item discounts.
func (k *Calculator) DiscountedItemTotal() decimal.Decimal {
	return k.round(k.ItemTotal().Sub(k.ItemDiscountTotal()))
}

// DiscountedShipmentTotal is the shipment total after shipment discounts,
// floored at zero.
func (k *Calculator) DiscountedShipmentTotal() decimal.Decimal {
	return k.round(money.Clamp(k.ShipmentTotal().Sub(k.ShipmentDiscountTotal())))
}

// TaxableTotal is the maximum amount that could be taxed, before discounts.
func (k *Calculator) TaxableTotal() decimal.Decimal {
	return k.round(k.TaxableItemTotal().Add(k.TaxableShipmentTotal()))
}
