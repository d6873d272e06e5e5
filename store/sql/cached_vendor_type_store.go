package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-vendors/core"
)

const vendorTypeCacheKeyPrefix = "go-vendors::vendor_type::v1"

// CachedVendorTypeStore fronts the catalog with a read-through cache. The
// catalog is read on every provisioning call and every credential save but
// changes only through rare admin actions, so invalidate-on-write keeps it
// coherent cheaply.
type CachedVendorTypeStore struct {
	base  core.VendorTypeStore
	cache repositorycache.CacheService
}

func NewCachedVendorTypeStore(
	base core.VendorTypeStore,
	cacheService repositorycache.CacheService,
) (*CachedVendorTypeStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base vendor type store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: vendor type cache service is required")
	}
	return &CachedVendorTypeStore{base: base, cache: cacheService}, nil
}

// VendorTypeCacheKey returns the deterministic cache key contract:
// go-vendors::vendor_type::v1::<segment>::<value> with the value
// URL-path escaped.
func VendorTypeCacheKey(segment string, value string) string {
	return strings.Join([]string{
		vendorTypeCacheKeyPrefix,
		segment,
		url.PathEscape(strings.TrimSpace(value)),
	}, "::")
}

func (s *CachedVendorTypeStore) Create(ctx context.Context, in core.CreateVendorTypeInput) (core.VendorType, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.VendorType{}, fmt.Errorf("sqlstore: cached vendor type store is not configured")
	}
	created, err := s.base.Create(ctx, in)
	if err != nil {
		return core.VendorType{}, err
	}
	if err := s.invalidate(ctx, created); err != nil {
		return core.VendorType{}, err
	}
	return created, nil
}

func (s *CachedVendorTypeStore) Get(ctx context.Context, id int64) (core.VendorType, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.VendorType{}, fmt.Errorf("sqlstore: cached vendor type store is not configured")
	}
	key := VendorTypeCacheKey("id", strconv.FormatInt(id, 10))
	return repositorycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (core.VendorType, error) {
		return s.base.Get(ctx, id)
	})
}

func (s *CachedVendorTypeStore) GetBySlug(ctx context.Context, slug string) (core.VendorType, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.VendorType{}, fmt.Errorf("sqlstore: cached vendor type store is not configured")
	}
	key := VendorTypeCacheKey("slug", slug)
	return repositorycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (core.VendorType, error) {
		return s.base.GetBySlug(ctx, slug)
	})
}

func (s *CachedVendorTypeStore) ListEnabled(ctx context.Context) ([]core.VendorType, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached vendor type store is not configured")
	}
	key := VendorTypeCacheKey("list", "enabled")
	return repositorycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]core.VendorType, error) {
		return s.base.ListEnabled(ctx)
	})
}

func (s *CachedVendorTypeStore) UpdateFields(ctx context.Context, id int64, fields map[string]any) (core.VendorType, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.VendorType{}, fmt.Errorf("sqlstore: cached vendor type store is not configured")
	}
	updated, err := s.base.UpdateFields(ctx, id, fields)
	if err != nil {
		return core.VendorType{}, err
	}
	if err := s.invalidate(ctx, updated); err != nil {
		return core.VendorType{}, err
	}
	return updated, nil
}

func (s *CachedVendorTypeStore) invalidate(ctx context.Context, vendorType core.VendorType) error {
	keys := []string{
		VendorTypeCacheKey("id", strconv.FormatInt(vendorType.ID, 10)),
		VendorTypeCacheKey("slug", vendorType.Slug),
		VendorTypeCacheKey("list", "enabled"),
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

var _ core.VendorTypeStore = (*CachedVendorTypeStore)(nil)
