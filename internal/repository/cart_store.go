package repository

import (
	"context"

	"storefront-service/internal/domain"
)

// CartStore is the durable home of a cart between visits. Load returns an
// empty cart when nothing is stored; Save persists on every mutation.
type CartStore interface {
	Load(ctx context.Context, cartID string) (*domain.Cart, error)
	Save(ctx context.Context, cartID string, cart *domain.Cart) error
	Delete(ctx context.Context, cartID string) error
}

// PixSnapshotStore keeps the PIX payment payload returned at checkout so
// the payment page can be re-rendered while the customer pays.
type PixSnapshotStore interface {
	Save(ctx context.Context, orderID uint64, snapshot any) error
	Load(ctx context.Context, orderID uint64, out any) (bool, error)
	Delete(ctx context.Context, orderID uint64) error
}
