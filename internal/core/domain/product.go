package domain

import "github.com/shopspring/decimal"

type (
	Product struct {
		ID          int
		Title       string
		Description string
		Price       decimal.Decimal
		Thumbnail   string
		Category    string
		Brand       string
	}

	// A FilterCriteria holds the listing controls. Empty fields do not constrain.
	FilterCriteria struct {
		Name     string
		Category string
		Brand    string
	}
)

// Empty reports whether no criterion is set.
func (c FilterCriteria) Empty() bool {
	return c.Name == "" && c.Category == "" && c.Brand == ""
}

// Categories returns distinct non-empty categories in order of first appearance.
func Categories(ps []Product) []string {
	return distinct(ps, func(p Product) string { return p.Category })
}

// Brands returns distinct non-empty brands in order of first appearance.
func Brands(ps []Product) []string {
	return distinct(ps, func(p Product) string { return p.Brand })
}

func distinct(ps []Product, field func(Product) string) []string {
	seen := make(map[string]struct{})
	var vs []string
	for _, p := range ps {
		v := field(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		vs = append(vs, v)
	}
	return vs
}

// A ProductDetail is a single product with its cart popularity, if known.
type ProductDetail struct {
	Product
	InCarts    int64
	HasInCarts bool
}
