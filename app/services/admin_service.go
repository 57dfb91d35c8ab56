package services

import (
	"context"
	"time"

	"github.com/address-resolver/app/responses"
	"github.com/address-resolver/internal/resolver"
	"github.com/address-resolver/internal/search"
	"go.uber.org/zap"
)

// AdminService service quản lý admin functions
type AdminService struct {
	resolver  *resolver.Resolver
	addresses *AddressService
	cache     ICacheService
	publisher *search.Publisher
	logger    *zap.Logger
}

// NewAdminService tạo mới AdminService; cache và publisher có thể nil
func NewAdminService(r *resolver.Resolver, addresses *AddressService, cache ICacheService, publisher *search.Publisher, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		resolver:  r,
		addresses: addresses,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// GetStats tổng hợp thống kê gazetteer, cache và xử lý
func (as *AdminService) GetStats(ctx context.Context) responses.AdminStatsResponse {
	svc := as.addresses.GetStats()
	stats := responses.AdminStatsResponse{
		Gazetteer:       as.resolver.Index().Stats(),
		ScopeCacheItems: as.resolver.ScopeStats(),
		TotalProcessed:  svc.TotalProcessed,
		ForcedTotal:     svc.ForcedTotal,
		AvgProcessingMs: svc.AvgProcessingMs,
		ActiveJobs:      svc.ActiveJobs,
		UptimeSeconds:   svc.UptimeSeconds,
		LastUpdated:     time.Now().UTC().Format(time.RFC3339),
	}

	if as.cache != nil {
		cacheStats, err := as.cache.GetStats(ctx)
		if err != nil {
			as.logger.Warn("Failed to get cache stats", zap.Error(err))
		} else {
			stats.CacheHitRate = cacheStats.HitRate
			stats.CacheItems = cacheStats.TotalItems
		}
	}
	return stats
}

// InvalidateCache xóa cache kết quả và scope cache của resolver
func (as *AdminService) InvalidateCache(ctx context.Context) error {
	as.resolver.PurgeScopes()
	if as.cache == nil {
		return nil
	}
	if err := as.cache.Clear(ctx); err != nil {
		return err
	}
	as.logger.Info("Cache invalidated", zap.String("gazetteer_version", as.resolver.Index().Version()))
	return nil
}

// Publish đẩy gazetteer hiện tại lên Meilisearch
func (as *AdminService) Publish(ctx context.Context) (*responses.PublishResponse, error) {
	if as.publisher == nil {
		return nil, search.ErrNotConfigured
	}

	start := time.Now()
	report, err := as.publisher.Publish(ctx, as.resolver.Index())
	if err != nil {
		return nil, err
	}
	return &responses.PublishResponse{
		Index:            report.Index,
		Documents:        report.Documents,
		Batches:          report.Batches,
		TaskUIDs:         report.TaskUIDs,
		GazetteerVersion: as.resolver.Index().Version(),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}
