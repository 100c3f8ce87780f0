package service

import (
	"time"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogLoader = (*Service)(nil)
var _ port.CartManager = (*Service)(nil)
var _ port.ProductDetailer = (*Service)(nil)

type Opt func(*Service)

// CartEventsOpt publishes every cart mutation to p.
func CartEventsOpt(p port.CartEventsProducer) Opt {
	return func(s *Service) {
		s.cartEvents = p
	}
}

// CartStatsOpt enriches product details with cart popularity from r.
func CartStatsOpt(r port.CartStatsReader) Opt {
	return func(s *Service) {
		s.cartStats = r
	}
}

// ClockOpt overrides the time source used for cart events.
func ClockOpt(now func() time.Time) Opt {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	catalogProvider port.CatalogProvider
	cartStorage     port.CartStorage
	cartEvents      port.CartEventsProducer
	cartStats       port.CartStatsReader
	catalog         *CatalogState
	now             func() time.Time
}

func New(
	catalogProvider port.CatalogProvider,
	cartStorage port.CartStorage,
	opts ...Opt,
) *Service {
	s := &Service{
		catalogProvider: catalogProvider,
		cartStorage:     cartStorage,
		catalog:         NewCatalogState(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
