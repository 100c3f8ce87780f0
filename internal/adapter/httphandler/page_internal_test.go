package httphandler

import (
	"net/url"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIdentifyPage(t *testing.T) {
	tests := []struct {
		path string
		want Page
	}{
		{"", PageListing},
		{"/", PageListing},
		{"/index.html", PageListing},
		{"/store/index.html", PageListing},
		{"/cart.html", PageCart},
		{"/product.html", PageDetail},
		{"/about.html", PageUnknown},
		{"/index.htm", PageUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IdentifyPage(tt.path), tt.path)
	}
}

func TestSafeBack(t *testing.T) {
	assert.Equal(t, "/cart.html", safeBack("/cart.html"))
	assert.Equal(t, "/index.html?q=hat", safeBack("/index.html?q=hat"))
	assert.Equal(t, defaultBack, safeBack(""))
	assert.Equal(t, defaultBack, safeBack("//evil.example"))
	assert.Equal(t, defaultBack, safeBack("/\\evil.example"))
	assert.Equal(t, defaultBack, safeBack("https://evil.example"))
}

func TestWithAdded(t *testing.T) {
	assert.Equal(t, "/index.html?added=3", withAdded("/index.html", 3))
	assert.Equal(t, "/index.html?added=3&q=hat", withAdded("/index.html?q=hat", 3))
}

func TestCriteriaFromQueryKeepsSearchTerm(t *testing.T) {
	c := criteriaFromQuery(url.Values{"q": {" shoe"}, "category": {"Footwear"}})
	assert.Equal(t, " shoe", c.Name)
	assert.Equal(t, "Footwear", c.Category)

	ps := []domain.Product{
		{ID: 1, Title: "Shoe", Price: decimal.NewFromInt(50), Category: "footwear"},
	}
	assert.Empty(t, domain.FilterProducts(ps, c))
}
