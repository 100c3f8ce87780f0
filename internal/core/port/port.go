package port

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// Inbound ports.

type CatalogLoader interface {
	LoadCatalog(context.Context) ([]domain.Product, error)
	FilterCatalog(domain.FilterCriteria) []domain.Product
	CachedCatalog() []domain.Product
}

type CartManager interface {
	AddToCart(ctx context.Context, visitorID string, productID int) (domain.Cart, error)
	RemoveFromCart(ctx context.Context, visitorID string, productID int) (domain.Cart, error)
	ListCart(ctx context.Context, visitorID string) (domain.Cart, error)
	CartSummary(ctx context.Context, visitorID string) (domain.CartSummary, error)
}

type ProductDetailer interface {
	ProductDetail(ctx context.Context, productID int) (domain.ProductDetail, error)
}

// Outbound ports.

type CatalogProvider interface {
	ListProducts(context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
}

type CartStorage interface {
	LoadCart(ctx context.Context, visitorID string) (domain.Cart, error)
	SaveCart(ctx context.Context, visitorID string, c domain.Cart) error
}

type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type CartEventsProducer interface {
	ProduceCartEvent(context.Context, domain.CartEvent) error
}

type CartStatsReader interface {
	InCarts(productID int) (int64, error)
}

type CartStatsProcessor interface {
	runnerContextWg
	closer
}
