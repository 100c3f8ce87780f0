package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
)

func (s *Service) ProductDetail(
	ctx context.Context, productID int,
) (domain.ProductDetail, error) {
	const op = "Service.ProductDetail"

	if err := ctx.Err(); err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.catalogProvider.GetProduct(ctx, productID)
	if err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	d := domain.ProductDetail{Product: p}
	if s.cartStats == nil {
		return d, nil
	}

	n, err := s.cartStats.InCarts(productID)
	if err != nil {
		slog.Warn("failed to read cart stats", "op", op, "err", err)
		return d, nil
	}
	d.InCarts = n
	d.HasInCarts = true
	return d, nil
}
