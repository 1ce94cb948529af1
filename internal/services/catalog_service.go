package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"

	"github.com/go-redis/redis/v8"
)

const (
	productListCacheKey = "catalog:products"
	categoryCacheKey    = "catalog:categories"
	productCacheTTL     = time.Minute
)

// CatalogService fronts the backend catalog with a Redis read-through
// cache for the storefront's hot paths. Admin mutations invalidate.
type CatalogService struct {
	client      infra.CatalogClientInterface
	redisClient *redis.Client
}

func NewCatalogService(client infra.CatalogClientInterface) *CatalogService {
	return &CatalogService{client: client}
}

func (s *CatalogService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// ListProducts returns the storefront product list, cached.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, productListCacheKey).Result()
		if err == nil {
			var products []domain.Product
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(products); err == nil {
			s.redisClient.Set(ctx, productListCacheKey, data, productCacheTTL)
		}
	}
	return products, nil
}

// GetProduct returns a single product, cached per id.
func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	cacheKey := fmt.Sprintf("catalog:product:%d", id)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(p); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return p, nil
}

// ListCategories returns the category list, cached.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, categoryCacheKey).Result()
		if err == nil {
			var categories []domain.Category
			if err := json.Unmarshal([]byte(cached), &categories); err == nil {
				return categories, nil
			}
		}
	}

	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(categories); err == nil {
			s.redisClient.Set(ctx, categoryCacheKey, data, productCacheTTL)
		}
	}
	return categories, nil
}

// Invalidate drops the cached catalog after an admin mutation.
func (s *CatalogService) Invalidate(ctx context.Context, productID uint64) {
	if s.redisClient == nil {
		return
	}
	keys := []string{productListCacheKey, categoryCacheKey}
	if productID != 0 {
		keys = append(keys, fmt.Sprintf("catalog:product:%d", productID))
	}
	s.redisClient.Del(ctx, keys...)
}

// WarmupCatalogCache primes the product and category caches at startup.
func (s *CatalogService) WarmupCatalogCache(ctx context.Context) error {
	if s.redisClient == nil {
		return nil
	}
	if _, err := s.ListProducts(ctx); err != nil {
		return err
	}
	_, err := s.ListCategories(ctx)
	return err
}
