package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/address-resolver/app/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCacheService cache LRU trong process, có TTL
type MemoryCacheService struct {
	cache *expirable.LRU[string, *models.AddressResult]
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCacheService tạo cache tối đa size mục, mỗi mục sống ttl
func NewMemoryCacheService(size int, ttl time.Duration) *MemoryCacheService {
	if size <= 0 {
		size = 10000
	}
	return &MemoryCacheService{
		cache: expirable.NewLRU[string, *models.AddressResult](size, nil, ttl),
		ttl:   ttl,
	}
}

func (mcs *MemoryCacheService) Get(_ context.Context, key string) (*models.AddressResult, bool, error) {
	result, ok := mcs.cache.Get(key)
	if !ok {
		mcs.misses.Add(1)
		return nil, false, nil
	}
	mcs.hits.Add(1)
	return result, true, nil
}

func (mcs *MemoryCacheService) Set(_ context.Context, key string, result *models.AddressResult) error {
	mcs.cache.Add(key, result)
	return nil
}

func (mcs *MemoryCacheService) Delete(_ context.Context, key string) error {
	mcs.cache.Remove(key)
	return nil
}

func (mcs *MemoryCacheService) Clear(_ context.Context) error {
	mcs.cache.Purge()
	return nil
}

func (mcs *MemoryCacheService) GetStats(_ context.Context) (*CacheStats, error) {
	return newCacheStats(mcs.hits.Load(), mcs.misses.Load(), int64(mcs.cache.Len())), nil
}

func (mcs *MemoryCacheService) Exists(_ context.Context, key string) (bool, error) {
	return mcs.cache.Contains(key), nil
}

// GetTTL trả về TTL cấu hình; expirable không lộ thời điểm hết hạn từng mục
func (mcs *MemoryCacheService) GetTTL(_ context.Context, key string) (time.Duration, error) {
	if !mcs.cache.Contains(key) {
		return 0, nil
	}
	return mcs.ttl, nil
}

func (mcs *MemoryCacheService) Close() error { return nil }
