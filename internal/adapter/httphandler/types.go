package httphandler

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	Product struct {
		ID          int             `json:"id"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		Thumbnail   string          `json:"thumbnail"`
		Category    string          `json:"category"`
		Brand       string          `json:"brand"`
	}

	CartItem struct {
		ID int `json:"id"`
	}

	Cart struct {
		ProductIDs []int `json:"product_ids"`
	}

	CartSummary struct {
		Items []Product `json:"items"`
		Total string    `json:"total"`
	}
)

func cartFromDomain(c domain.Cart) Cart {
	ids := c.ProductIDs
	if ids == nil {
		ids = []int{}
	}
	return Cart{ProductIDs: ids}
}

func cartSummaryFromDomain(s domain.CartSummary) CartSummary {
	items := make([]Product, 0, len(s.Lines))
	for _, p := range s.Lines {
		items = append(items, Product{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			Thumbnail:   p.Thumbnail,
			Category:    p.Category,
			Brand:       p.Brand,
		})
	}
	return CartSummary{Items: items, Total: s.Total.StringFixed(2)}
}
