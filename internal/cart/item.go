package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Item is one purchasable line: a unit price multiplied by a quantity.
// Items are ephemeral per cart and owned exclusively by it.
type Item struct {
	ID           string
	SKU          string
	Price        decimal.Decimal
	Qty          int
	Weight       decimal.Decimal
	CategoryIDs  []string
	Taxable      bool
	Discountable bool
}

// NewItem constructs an item with the default flags (discountable, untaxed).
func NewItem(id string, price decimal.Decimal, qty int) *Item {
	return &Item{ID: id, Price: price, Qty: qty, Discountable: true}
}

// Key returns the cart key for this item.
func (it *Item) Key() string { return ItemKey(it.ID) }

// Total returns price multiplied by quantity. Negative quantities count as
// zero.
func (it *Item) Total() decimal.Decimal {
	if it.Qty <= 0 {
		return decimal.Zero
	}
	return it.Price.Mul(decimal.NewFromInt(int64(it.Qty)))
}

// ResolveField exposes the item's condition-source fields. It reports false
// for unrecognized names.
func (it *Item) ResolveField(field string) (any, bool) {
	switch field {
	case "price":
		return it.Price, true
	case "qty":
		return it.Qty, true
	case "sku":
		return it.SKU, true
	case "weight":
		return it.Weight, true
	case "category_ids_csv":
		return strings.Join(it.CategoryIDs, ","), true
	}
	return nil, false
}
