package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartStorage = (*CartRepository)(nil)

const cartKeyPrefix = "cart:"

// A CartRepository persists carts as JSON arrays of product identifiers.
//
// Absent or unparsable entries load as an empty cart.
type CartRepository struct {
	kv port.KeyValueStorage
}

func NewCartRepository(kv port.KeyValueStorage) CartRepository {
	return CartRepository{kv}
}

func CartKey(visitorID string) string {
	return cartKeyPrefix + visitorID
}

func (r CartRepository) LoadCart(
	ctx context.Context, visitorID string,
) (domain.Cart, error) {
	const op = "CartRepository.LoadCart"
	log := slog.With("op", op)

	raw, err := r.kv.Get(ctx, CartKey(visitorID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Cart{}, nil
		}
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Warn("corrupted cart treated as empty", "err", err)
		return domain.Cart{}, nil
	}
	return domain.Cart{ProductIDs: ids}, nil
}

func (r CartRepository) SaveCart(
	ctx context.Context, visitorID string, c domain.Cart,
) error {
	const op = "CartRepository.SaveCart"

	ids := c.ProductIDs
	if ids == nil {
		ids = []int{}
	}

	b, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.kv.Set(ctx, CartKey(visitorID), string(b)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
