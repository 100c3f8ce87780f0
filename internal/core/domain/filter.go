package domain

import "strings"

// FilterProducts returns the products matching c, preserving input order.
//
// Title is matched by case-insensitive substring, category and brand by
// case-insensitive equality. The input slice is never modified.
func FilterProducts(ps []Product, c FilterCriteria) []Product {
	if c.Empty() {
		return ps
	}

	name := strings.ToLower(c.Name)
	res := make([]Product, 0, len(ps))
	for _, p := range ps {
		if !strings.Contains(strings.ToLower(p.Title), name) {
			continue
		}
		if c.Category != "" && !strings.EqualFold(p.Category, c.Category) {
			continue
		}
		if c.Brand != "" && !strings.EqualFold(p.Brand, c.Brand) {
			continue
		}
		res = append(res, p)
	}
	return res
}
