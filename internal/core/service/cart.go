package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
)

func (s *Service) AddToCart(
	ctx context.Context, visitorID string, productID int,
) (domain.Cart, error) {
	const op = "Service.AddToCart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.cartStorage.LoadCart(ctx, visitorID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	c.Add(productID)

	if err := s.cartStorage.SaveCart(ctx, visitorID, c); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, domain.CartEvent{
		VisitorID: visitorID,
		ProductID: productID,
		Action:    domain.CartActionAdded,
		Quantity:  1,
	})
	return c, nil
}

func (s *Service) RemoveFromCart(
	ctx context.Context, visitorID string, productID int,
) (domain.Cart, error) {
	const op = "Service.RemoveFromCart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.cartStorage.LoadCart(ctx, visitorID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	n := c.Remove(productID)

	if err := s.cartStorage.SaveCart(ctx, visitorID, c); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	if n != 0 {
		s.publish(ctx, domain.CartEvent{
			VisitorID: visitorID,
			ProductID: productID,
			Action:    domain.CartActionRemoved,
			Quantity:  n,
		})
	}
	return c, nil
}

func (s *Service) ListCart(
	ctx context.Context, visitorID string,
) (domain.Cart, error) {
	const op = "Service.ListCart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.cartStorage.LoadCart(ctx, visitorID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CartSummary joins the visitor's cart against a freshly fetched catalog.
func (s *Service) CartSummary(
	ctx context.Context, visitorID string,
) (domain.CartSummary, error) {
	const op = "Service.CartSummary"

	c, err := s.ListCart(ctx, visitorID)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.catalogProvider.ListProducts(ctx)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.Summarize(c, ps), nil
}

func (s *Service) publish(ctx context.Context, evt domain.CartEvent) {
	const op = "Service.publish"

	if s.cartEvents == nil {
		return
	}

	evt.OccurredAt = s.now()
	if err := s.cartEvents.ProduceCartEvent(ctx, evt); err != nil {
		slog.Warn(
			"failed to publish cart event",
			"op", op, "action", evt.Action, "err", err,
		)
	}
}
