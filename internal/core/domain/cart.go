package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// A Cart is an ordered sequence of product identifiers.
// The same identifier may appear more than once.
type Cart struct {
	ProductIDs []int
}

// Add appends id to the cart.
func (c *Cart) Add(id int) {
	c.ProductIDs = append(c.ProductIDs, id)
}

// Remove drops every entry equal to id and reports how many were dropped.
func (c *Cart) Remove(id int) int {
	n := len(c.ProductIDs)
	c.ProductIDs = slices.DeleteFunc(c.ProductIDs, func(v int) bool {
		return v == id
	})
	return n - len(c.ProductIDs)
}

type CartSummary struct {
	Lines []Product
	Total decimal.Decimal
}

// Summarize joins the cart against the catalog. Identifiers without a
// matching product are skipped and contribute nothing to the total.
func Summarize(c Cart, catalog []Product) CartSummary {
	byID := make(map[int]Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	s := CartSummary{Total: decimal.Zero}
	for _, id := range c.ProductIDs {
		p, ok := byID[id]
		if !ok {
			continue
		}
		s.Lines = append(s.Lines, p)
		s.Total = s.Total.Add(p.Price)
	}
	return s
}

type CartAction string

const (
	CartActionAdded   CartAction = "added"
	CartActionRemoved CartAction = "removed"
)

type CartEvent struct {
	VisitorID  string
	ProductID  int
	Action     CartAction
	Quantity   int
	OccurredAt time.Time
}
