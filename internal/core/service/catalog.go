package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
)

// A CatalogState owns the catalog cached for listing and filtering.
//
// Loads are sequenced by ticket: a result is applied only when no newer
// load has been applied already.
type CatalogState struct {
	mu       sync.RWMutex
	issued   uint64
	applied  uint64
	products []domain.Product
}

func NewCatalogState() *CatalogState {
	return &CatalogState{}
}

func (s *CatalogState) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

func (s *CatalogState) apply(ticket uint64, ps []domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket < s.applied {
		return false
	}
	s.applied = ticket
	s.products = ps
	return true
}

// Snapshot returns the cached products. The slice must not be modified.
func (s *CatalogState) Snapshot() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// LoadCatalog fetches the full catalog and replaces the cached one.
func (s *Service) LoadCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.LoadCatalog"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ticket := s.catalog.begin()
	ps, err := s.catalogProvider.ListProducts(ctx)
	if err != nil {
		// a failed load empties the list unless a newer load was applied
		s.catalog.apply(ticket, nil)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.catalog.apply(ticket, ps) {
		log.Debug("stale catalog discarded", "ticket", ticket)
		return s.catalog.Snapshot(), nil
	}

	log.Debug("catalog loaded", "nProducts", len(ps), "ticket", ticket)
	return ps, nil
}

// FilterCatalog filters the cached catalog without fetching.
func (s *Service) FilterCatalog(c domain.FilterCriteria) []domain.Product {
	return domain.FilterProducts(s.catalog.Snapshot(), c)
}

func (s *Service) CachedCatalog() []domain.Product {
	return s.catalog.Snapshot()
}
