package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

// Cache is a read-through cache for catalog queries. All methods are nil-safe
// so the service works without redis (tests, degraded mode). Cache failures
// are treated as misses; the database stays the source of truth.
type Cache struct{ Redis *redis.Client }

func (c *Cache) List(ctx context.Context) ([]Product, bool) {
	if c == nil || c.Redis == nil {
		return nil, false
	}
	b, err := c.Redis.Get(ctx, redisx.KeyProductList).Bytes()
	if err != nil {
		return nil, false
	}
	var ps []Product
	if json.Unmarshal(b, &ps) != nil {
		return nil, false
	}
	return ps, true
}

func (c *Cache) SetList(ctx context.Context, ps []Product) {
	if c == nil || c.Redis == nil {
		return
	}
	if b, err := json.Marshal(ps); err == nil {
		_ = c.Redis.Set(ctx, redisx.KeyProductList, b, redisx.TTLCatalog).Err()
	}
}

func (c *Cache) Product(ctx context.Context, id string) (*Product, bool) {
	if c == nil || c.Redis == nil {
		return nil, false
	}
	b, err := c.Redis.Get(ctx, fmt.Sprintf(redisx.KeyProduct, id)).Bytes()
	if err != nil {
		return nil, false
	}
	var p Product
	if json.Unmarshal(b, &p) != nil {
		return nil, false
	}
	return &p, true
}

func (c *Cache) SetProduct(ctx context.Context, p *Product) {
	if c == nil || c.Redis == nil {
		return
	}
	if b, err := json.Marshal(p); err == nil {
		_ = c.Redis.Set(ctx, fmt.Sprintf(redisx.KeyProduct, p.ID), b, redisx.TTLCatalog).Err()
	}
}

// Invalidate drops the listing plus the given product entries.
func (c *Cache) Invalidate(ctx context.Context, ids ...string) {
	if c == nil || c.Redis == nil {
		return
	}
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, redisx.KeyProductList)
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf(redisx.KeyProduct, id))
	}
	_ = c.Redis.Del(ctx, keys...).Err()
}
