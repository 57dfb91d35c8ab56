package services

import (
	"context"
	"errors"
	"time"

	"github.com/address-resolver/app/models"
	"go.uber.org/zap"
)

// HybridCacheService cache hai tầng: L1 trong process + L2 dùng chung (Redis)
type HybridCacheService struct {
	l1     ICacheService
	l2     ICacheService
	logger *zap.Logger
}

// NewHybridCacheService tạo mới hybrid cache service
func NewHybridCacheService(l1, l2 ICacheService, logger *zap.Logger) *HybridCacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HybridCacheService{l1: l1, l2: l2, logger: logger}
}

// Get lấy từ L1 trước, L2 sau; hit ở L2 được ghi ngược lên L1
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.AddressResult, bool, error) {
	if result, found, _ := hcs.l1.Get(ctx, key); found {
		return result, true, nil
	}

	result, found, err := hcs.l2.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("Lỗi L2 cache, bỏ qua", zap.Error(err))
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}

	if err := hcs.l1.Set(ctx, key, result); err != nil {
		hcs.logger.Warn("Lỗi sync L2->L1", zap.Error(err), zap.String("key", key))
	}
	hcs.logger.Debug("L2 cache hit", zap.String("key", key))
	return result, true, nil
}

// Set lưu vào cả hai tầng
func (hcs *HybridCacheService) Set(ctx context.Context, key string, result *models.AddressResult) error {
	return both(
		func() error { return hcs.l1.Set(ctx, key, result) },
		func() error { return hcs.l2.Set(ctx, key, result) },
	)
}

// Delete xóa key ở cả hai tầng
func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	return both(
		func() error { return hcs.l1.Delete(ctx, key) },
		func() error { return hcs.l2.Delete(ctx, key) },
	)
}

// Clear xóa toàn bộ cả hai tầng
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	err := both(
		func() error { return hcs.l1.Clear(ctx) },
		func() error { return hcs.l2.Clear(ctx) },
	)
	if err == nil {
		hcs.logger.Info("Cleared hybrid cache")
	}
	return err
}

// GetStats hit tính trên cả hai tầng, miss là miss ở L2
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	l1, err := hcs.l1.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	l2, err := hcs.l2.GetStats(ctx)
	if err != nil {
		return l1, nil
	}
	return newCacheStats(l1.TotalHits+l2.TotalHits, l2.TotalMiss, l2.TotalItems), nil
}

// Exists kiểm tra L1 rồi L2
func (hcs *HybridCacheService) Exists(ctx context.Context, key string) (bool, error) {
	if ok, err := hcs.l1.Exists(ctx, key); err == nil && ok {
		return true, nil
	}
	return hcs.l2.Exists(ctx, key)
}

// GetTTL lấy TTL của key ở L2
func (hcs *HybridCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return hcs.l2.GetTTL(ctx, key)
}

// Close đóng cả hai tầng
func (hcs *HybridCacheService) Close() error {
	return both(hcs.l1.Close, hcs.l2.Close)
}

// both chạy hai thao tác song song và gộp lỗi
func both(a, b func() error) error {
	errCh := make(chan error, 2)
	go func() { errCh <- a() }()
	go func() { errCh <- b() }()
	return errors.Join(<-errCh, <-errCh)
}
