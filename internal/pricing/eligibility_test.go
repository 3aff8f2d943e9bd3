package pricing

import (
	"testing"

	"github.com/noah-isme/cart-engine/internal/cart"
	"github.com/noah-isme/cart-engine/internal/money"
	"github.com/noah-isme/cart-engine/internal/rule"
)

func TestUnconditionalDiscountAlwaysApplies(t *testing.T) {
	c := cart.New()
	c.AddDiscount(cart.NewDiscount("d", money.MustParse("1.00")))

	got := ApplicableDiscounts(c)
	if len(got) != 1 || got[0].ID != "d" {
		t.Fatalf("expected the unconditional discount, got %v", got)
	}
}

func TestItemConditionMatchesAnyItem(t *testing.T) {
	c := cart.New()
	c.AddItem(cart.NewItem("cheap", money.MustParse("5.00"), 1))
	expensive := cart.NewItem("pricey", money.MustParse("150.00"), 1)
	c.AddItem(expensive)

	d := cart.NewDiscount("big-spender", money.MustParse("10.00"))
	d.Condition = &rule.Leaf{
		Op:           rule.OpGreaterThanEquals,
		CompareValue: "100",
		SourceEntity: rule.EntityItem,
		Field:        "price",
	}
	c.AddDiscount(d)

	if got := ApplicableDiscounts(c); len(got) != 1 {
		t.Fatalf("expected the discount to apply via the expensive item, got %v", got)
	}

	c.RemoveItem("pricey")
	if got := ApplicableDiscounts(c); len(got) != 0 {
		t.Fatalf("expected no applicable discounts, got %v", got)
	}
}

func TestShipmentConditionTree(t *testing.T) {
	c := cart.New()
	ground := cart.NewShipment("1", money.MustParse("11.99"))
	ground.Vendor = "ups"
	ground.Method = "ground"
	c.AddShipment(ground)

	tree := rule.NewNode(rule.OpAnd, rule.EntityShipment)
	if err := tree.AddChild(&rule.Leaf{
		Op:           rule.OpEquals,
		CompareValue: "ups_ground",
		SourceEntity: rule.EntityShipment,
		Field:        "code",
	}); err != nil {
		t.Fatal(err)
	}
	if err := tree.AddChild(&rule.Leaf{
		Op:           rule.OpLessThan,
		CompareValue: "20",
		SourceEntity: rule.EntityShipment,
		Field:        "price",
	}); err != nil {
		t.Fatal(err)
	}

	d := cart.NewDiscount("free-ground", money.MustParse("11.99"))
	d.Target = cart.TargetShipments
	d.Condition = tree
	c.AddDiscount(d)

	if got := ApplicableDiscounts(c); len(got) != 1 {
		t.Fatalf("expected the shipment tree to match, got %v", got)
	}
}

func TestCustomerConditionRequiresCustomer(t *testing.T) {
	c := cart.New()
	d := cart.NewDiscount("wholesale", money.MustParse("5.00"))
	d.Condition = &rule.Leaf{
		Op:           rule.OpEquals,
		CompareValue: "wholesale",
		SourceEntity: rule.EntityCustomer,
		Field:        "group",
	}
	c.AddDiscount(d)

	if got := ApplicableDiscounts(c); len(got) != 0 {
		t.Fatal("customer condition must not match without a customer")
	}

	c.Customer = &cart.Customer{ID: "c1", Group: "wholesale"}
	if got := ApplicableDiscounts(c); len(got) != 1 {
		t.Fatal("expected the customer condition to match")
	}
}

func TestClassifyPartitions(t *testing.T) {
	preItems := cart.NewDiscount("a", money.MustParse("1.00"))
	postShip := cart.NewDiscount("b", money.MustParse("2.00"))
	postShip.Target = cart.TargetShipments
	postShip.Timing = cart.TimingPostTax
	spec := cart.NewDiscount("c", money.MustParse("3.00"))
	spec.Target = cart.TargetSpecified
	spec.AddItem(cart.ItemKey("x"), 1)
	spec.AddShipment(cart.ShipmentKey("y"))
	unknown := cart.NewDiscount("d", money.MustParse("4.00"))
	unknown.Target = cart.Target("vouchers")

	cl := Classify([]*cart.Discount{preItems, postShip, spec, unknown, nil})
	if len(cl.PreTax.Items) != 1 || len(cl.PostTax.Shipments) != 1 || len(cl.PreTax.Specified) != 1 {
		t.Fatalf("bad partition: %+v", cl)
	}
	if len(cl.PostTax.Items) != 0 || len(cl.PreTax.Shipments) != 0 {
		t.Fatalf("bad partition: %+v", cl)
	}
	if !cl.ItemClaimed(cart.ItemKey("x")) || !cl.ShipmentClaimed(cart.ShipmentKey("y")) {
		t.Fatal("specified references not claimed")
	}
	if cl.ItemClaimed(cart.ItemKey("z")) {
		t.Fatal("unexpected claim")
	}
}
