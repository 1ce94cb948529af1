package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	goredis "github.com/go-redis/redis/v8"
)

// Carts live under cart:{id}, PIX snapshots under pix:{orderId}. Carts get
// a long TTL refreshed on every write; abandoned carts expire on their own.
const (
	cartKeyPrefix = "cart:"
	pixKeyPrefix  = "pix:"

	cartTTL = 30 * 24 * time.Hour
	pixTTL  = 24 * time.Hour
)

type cartStore struct {
	rdb *goredis.Client
}

func NewCartStore(rdb *goredis.Client) repository.CartStore {
	return &cartStore{rdb: rdb}
}

func (s *cartStore) Load(ctx context.Context, cartID string) (*domain.Cart, error) {
	data, err := s.rdb.Get(ctx, cartKeyPrefix+cartID).Result()
	if errors.Is(err, goredis.Nil) {
		return &domain.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cart domain.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", cartID, err)
	}
	return &cart, nil
}

func (s *cartStore) Save(ctx context.Context, cartID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKeyPrefix+cartID, data, cartTTL).Err()
}

func (s *cartStore) Delete(ctx context.Context, cartID string) error {
	return s.rdb.Del(ctx, cartKeyPrefix+cartID).Err()
}

type pixSnapshotStore struct {
	rdb *goredis.Client
}

func NewPixSnapshotStore(rdb *goredis.Client) repository.PixSnapshotStore {
	return &pixSnapshotStore{rdb: rdb}
}

func (s *pixSnapshotStore) Save(ctx context.Context, orderID uint64, snapshot any) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, fmt.Sprintf("%s%d", pixKeyPrefix, orderID), data, pixTTL).Err()
}

func (s *pixSnapshotStore) Load(ctx context.Context, orderID uint64, out any) (bool, error) {
	data, err := s.rdb.Get(ctx, fmt.Sprintf("%s%d", pixKeyPrefix, orderID)).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("decode pix snapshot %d: %w", orderID, err)
	}
	return true, nil
}

func (s *pixSnapshotStore) Delete(ctx context.Context, orderID uint64) error {
	return s.rdb.Del(ctx, fmt.Sprintf("%s%d", pixKeyPrefix, orderID)).Err()
}
