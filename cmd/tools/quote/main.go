package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/noah-isme/cart-engine/internal/cart"
	"github.com/noah-isme/cart-engine/internal/pricing"
)

// Prices a cart document from a file (or stdin with "-") and prints the
// totals report as JSON.
func main() {
	file := flag.String("cart", "-", "path to the cart JSON document, or - for stdin")
	applied := flag.Bool("applied", false, "print the ids of discounts that passed their conditions")
	flag.Parse()

	data, err := readInput(*file)
	if err != nil {
		log.Fatalf("read cart: %v", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		log.Fatalf("decode cart: %v", err)
	}

	c.Discounts = pricing.ApplicableDiscounts(&c)
	totals := pricing.NewCalculator(&c).Totals()

	out := map[string]any{"totals": totals}
	if *applied {
		ids := make([]string, 0, len(c.Discounts))
		for _, d := range c.Discounts {
			ids = append(ids, d.ID)
		}
		out["applied_discounts"] = ids
	}
	enc, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("encode totals: %v", err)
	}
	fmt.Println(string(enc))
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
