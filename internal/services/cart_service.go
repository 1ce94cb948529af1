package services

import (
	"context"
	"errors"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
)

// MaxLineQuantity caps a single cart line. The cap lives here at the edge
// of the store, not in the cart itself.
const MaxLineQuantity = 99

var ErrQuantityTooLarge = errors.New("quantity exceeds the per-line limit")

// CartService persists every mutation through the store; the cart in Redis
// is the single authoritative copy until checkout clears it.
type CartService struct {
	store repository.CartStore
}

func NewCartService(store repository.CartStore) *CartService {
	return &CartService{store: store}
}

func (s *CartService) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.store.Load(ctx, cartID)
}

func (s *CartService) Add(ctx context.Context, cartID string, product domain.Product, note string) (*domain.Cart, error) {
	cart, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.Add(product, note)
	if err := s.store.Save(ctx, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Remove(ctx context.Context, cartID string, productID uint64) (*domain.Cart, error) {
	cart, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)
	if err := s.store.Save(ctx, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) SetQuantity(ctx context.Context, cartID string, productID uint64, quantity int) (*domain.Cart, error) {
	if quantity > MaxLineQuantity {
		return nil, ErrQuantityTooLarge
	}
	cart, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.SetQuantity(productID, quantity)
	if err := s.store.Save(ctx, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, cartID string) error {
	return s.store.Delete(ctx, cartID)
}
