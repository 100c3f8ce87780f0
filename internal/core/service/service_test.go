package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogProvider struct {
	mock.Mock
}

func (m *MockCatalogProvider) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

func (m *MockCatalogProvider) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

// memCarts is a map backed cart storage.
type memCarts map[string]domain.Cart

func (m memCarts) LoadCart(_ context.Context, visitorID string) (domain.Cart, error) {
	return m[visitorID], nil
}

func (m memCarts) SaveCart(_ context.Context, visitorID string, c domain.Cart) error {
	m[visitorID] = c
	return nil
}

type MockCartEventsProducer struct {
	mock.Mock
}

func (m *MockCartEventsProducer) ProduceCartEvent(ctx context.Context, evt domain.CartEvent) error {
	return m.Called(ctx, evt).Error(0)
}

type MockCartStatsReader struct {
	mock.Mock
}

func (m *MockCartStatsReader) InCarts(productID int) (int64, error) {
	args := m.Called(productID)
	return args.Get(0).(int64), args.Error(1)
}

func scenarioCatalog() []domain.Product {
	return []domain.Product{
		{
			ID: 1, Title: "Shoe", Price: decimal.NewFromInt(50),
			Category: "footwear", Brand: "Acme",
		},
		{
			ID: 2, Title: "Hat", Price: decimal.NewFromInt(20),
			Category: "apparel", Brand: "Acme",
		},
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Run("CachesAndFilters", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("ListProducts", mock.Anything).
			Return(scenarioCatalog(), nil).Once()

		s := service.New(provider, memCarts{})
		ps, err := s.LoadCatalog(t.Context())
		require.NoError(t, err)
		assert.Len(t, ps, 2)
		assert.Equal(t, ps, s.CachedCatalog())

		got := s.FilterCatalog(domain.FilterCriteria{Name: "sh"})
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].ID)

		provider.AssertExpectations(t)
	})

	t.Run("FailureKeepsEmpty", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("ListProducts", mock.Anything).
			Return(nil, errors.New("network down"))

		s := service.New(provider, memCarts{})
		_, err := s.LoadCatalog(t.Context())
		require.Error(t, err)
		assert.Empty(t, s.CachedCatalog())
		assert.Empty(t, s.FilterCatalog(domain.FilterCriteria{}))
	})

	t.Run("FailureClearsPrevious", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("ListProducts", mock.Anything).
			Return(scenarioCatalog(), nil).Once()
		provider.On("ListProducts", mock.Anything).
			Return(nil, errors.New("network down")).Once()

		s := service.New(provider, memCarts{})
		_, err := s.LoadCatalog(t.Context())
		require.NoError(t, err)
		require.Len(t, s.CachedCatalog(), 2)

		_, err = s.LoadCatalog(t.Context())
		require.Error(t, err)
		assert.Empty(t, s.CachedCatalog())
		assert.Empty(t, s.FilterCatalog(domain.FilterCriteria{}))
		assert.Empty(t, s.FilterCatalog(domain.FilterCriteria{Name: "hat"}))
	})

	t.Run("Overwrites", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("ListProducts", mock.Anything).
			Return(scenarioCatalog(), nil).Once()
		provider.On("ListProducts", mock.Anything).
			Return(scenarioCatalog()[1:], nil).Once()

		s := service.New(provider, memCarts{})
		_, err := s.LoadCatalog(t.Context())
		require.NoError(t, err)
		_, err = s.LoadCatalog(t.Context())
		require.NoError(t, err)
		require.Len(t, s.CachedCatalog(), 1)
		assert.Equal(t, 2, s.CachedCatalog()[0].ID)
	})
}

// gatedProvider blocks its first ListProducts call until release is closed.
type gatedProvider struct {
	started chan struct{}
	release chan struct{}
	calls   chan int
	first   []domain.Product
	second  []domain.Product
}

func (p *gatedProvider) ListProducts(ctx context.Context) ([]domain.Product, error) {
	n := <-p.calls
	if n == 1 {
		close(p.started)
		<-p.release
		return p.first, nil
	}
	return p.second, nil
}

func (p *gatedProvider) GetProduct(context.Context, int) (domain.Product, error) {
	return domain.Product{}, errors.New("not implemented")
}

func TestLoadCatalogDiscardsStale(t *testing.T) {
	catalog := scenarioCatalog()
	p := &gatedProvider{
		started: make(chan struct{}),
		release: make(chan struct{}),
		calls:   make(chan int, 2),
		first:   catalog[:1],
		second:  catalog[1:],
	}
	p.calls <- 1
	p.calls <- 2

	s := service.New(p, memCarts{})

	staleRes := make(chan []domain.Product, 1)
	go func() {
		ps, _ := s.LoadCatalog(context.Background())
		staleRes <- ps
	}()

	select {
	case <-p.started:
	case <-time.After(time.Second):
		t.Fatal("first load did not start")
	}

	fresh, err := s.LoadCatalog(t.Context())
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, 2, fresh[0].ID)

	close(p.release)
	stale := <-staleRes

	assert.Equal(t, fresh, stale)
	assert.Equal(t, fresh, s.CachedCatalog())
}

func TestCart(t *testing.T) {
	const visitor = "visitor-1"

	t.Run("Scenario", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("ListProducts", mock.Anything).Return(scenarioCatalog(), nil)

		s := service.New(provider, memCarts{})

		_, err := s.AddToCart(t.Context(), visitor, 1)
		require.NoError(t, err)
		c, err := s.AddToCart(t.Context(), visitor, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, c.ProductIDs)

		sum, err := s.CartSummary(t.Context(), visitor)
		require.NoError(t, err)
		assert.Equal(t, "70.00", sum.Total.StringFixed(2))

		_, err = s.RemoveFromCart(t.Context(), visitor, 1)
		require.NoError(t, err)

		sum, err = s.CartSummary(t.Context(), visitor)
		require.NoError(t, err)
		assert.Equal(t, "20.00", sum.Total.StringFixed(2))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		carts := memCarts{visitor: {ProductIDs: []int{5, 6}}}
		s := service.New(new(MockCatalogProvider), carts)

		_, err := s.AddToCart(t.Context(), visitor, 7)
		require.NoError(t, err)
		_, err = s.RemoveFromCart(t.Context(), visitor, 7)
		require.NoError(t, err)

		c, err := s.ListCart(t.Context(), visitor)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 6}, c.ProductIDs)
	})

	t.Run("SummaryFetchFails", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("ListProducts", mock.Anything).
			Return(nil, errors.New("timeout"))

		s := service.New(provider, memCarts{visitor: {ProductIDs: []int{1}}})
		_, err := s.CartSummary(t.Context(), visitor)
		require.Error(t, err)
	})

	t.Run("PublishesEvents", func(t *testing.T) {
		now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		events := new(MockCartEventsProducer)
		events.On("ProduceCartEvent", mock.Anything, domain.CartEvent{
			VisitorID: visitor, ProductID: 3,
			Action: domain.CartActionAdded, Quantity: 1, OccurredAt: now,
		}).Return(nil).Twice()
		events.On("ProduceCartEvent", mock.Anything, domain.CartEvent{
			VisitorID: visitor, ProductID: 3,
			Action: domain.CartActionRemoved, Quantity: 2, OccurredAt: now,
		}).Return(errors.New("broker unavailable")).Once()

		s := service.New(
			new(MockCatalogProvider), memCarts{},
			service.CartEventsOpt(events),
			service.ClockOpt(func() time.Time { return now }),
		)

		_, err := s.AddToCart(t.Context(), visitor, 3)
		require.NoError(t, err)
		_, err = s.AddToCart(t.Context(), visitor, 3)
		require.NoError(t, err)
		c, err := s.RemoveFromCart(t.Context(), visitor, 3)
		require.NoError(t, err, "publish failure must not fail the cart")
		assert.Empty(t, c.ProductIDs)

		_, err = s.RemoveFromCart(t.Context(), visitor, 3)
		require.NoError(t, err)

		events.AssertExpectations(t)
	})
}

func TestProductDetail(t *testing.T) {
	p := scenarioCatalog()[0]

	t.Run("WithoutStats", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProduct", mock.Anything, 1).Return(p, nil)

		s := service.New(provider, memCarts{})
		d, err := s.ProductDetail(t.Context(), 1)
		require.NoError(t, err)
		assert.Equal(t, p, d.Product)
		assert.False(t, d.HasInCarts)
	})

	t.Run("WithStats", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProduct", mock.Anything, 1).Return(p, nil)
		stats := new(MockCartStatsReader)
		stats.On("InCarts", 1).Return(int64(4), nil)

		s := service.New(provider, memCarts{}, service.CartStatsOpt(stats))
		d, err := s.ProductDetail(t.Context(), 1)
		require.NoError(t, err)
		assert.True(t, d.HasInCarts)
		assert.Equal(t, int64(4), d.InCarts)
	})

	t.Run("StatsFailureIgnored", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProduct", mock.Anything, 1).Return(p, nil)
		stats := new(MockCartStatsReader)
		stats.On("InCarts", 1).Return(int64(0), errors.New("view not ready"))

		s := service.New(provider, memCarts{}, service.CartStatsOpt(stats))
		d, err := s.ProductDetail(t.Context(), 1)
		require.NoError(t, err)
		assert.False(t, d.HasInCarts)
	})

	t.Run("FetchFails", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProduct", mock.Anything, 9).
			Return(domain.Product{}, errors.New("connection refused"))

		s := service.New(provider, memCarts{})
		_, err := s.ProductDetail(t.Context(), 9)
		require.Error(t, err)
	})
}
