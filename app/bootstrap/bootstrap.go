// Package bootstrap khởi tạo các thành phần dùng chung cho API server và CLI
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/address-resolver/app/config"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/metrics"
	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/resolver"
	"github.com/address-resolver/internal/search"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NewLogger logger production khi APP_ENV=production, development nếu không
func NewLogger(settings *config.Settings) (*zap.Logger, error) {
	var cfg zap.Config
	if settings.Production() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

// LoadIndex nạp gazetteer từ file JSON hoặc MongoDB (DATA_SOURCE=mongo).
// Dữ liệu thiếu hoặc hỏng thì dùng tập rỗng.
func LoadIndex(ctx context.Context, settings *config.Settings, logger *zap.Logger) (*gazetteer.Index, error) {
	rules, err := normalizer.LoadRules()
	if err != nil {
		return nil, err
	}

	var legacy, current []gazetteer.Record
	switch settings.DataSource {
	case "mongo":
		db, disconnect, err := connectMongo(ctx, settings, logger)
		if err != nil {
			return nil, err
		}
		defer disconnect()
		source := gazetteer.NewMongoSource(db, logger)
		legacy = source.LoadOrEmpty(ctx, gazetteer.SchemeLegacy)
		current = source.LoadOrEmpty(ctx, gazetteer.SchemeCurrent)
	case "file", "":
		legacy = gazetteer.LoadOrEmpty(settings.LegacyPath, gazetteer.SchemeLegacy, logger)
		current = gazetteer.LoadOrEmpty(settings.CurrentPath, gazetteer.SchemeCurrent, logger)
	default:
		return nil, fmt.Errorf("data_source không hợp lệ: %q", settings.DataSource)
	}

	idx := gazetteer.Build(legacy, current, rules.AliasTable())
	stats := idx.Stats()
	logger.Info("Gazetteer index built",
		zap.String("version", stats.Version),
		zap.Int("provinces", stats.Provinces),
		zap.Int("districts", stats.Districts),
		zap.Int("wards", stats.Wards),
		zap.Int("aliases", stats.Aliases))
	return idx, nil
}

// connectMongo khởi tạo kết nối MongoDB
func connectMongo(ctx context.Context, settings *config.Settings, logger *zap.Logger) (*mongo.Database, func(), error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(settings.MongoURL))
	if err != nil {
		return nil, nil, fmt.Errorf("không thể kết nối MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("không thể ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", settings.MongoDB))
	disconnect := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Error disconnecting MongoDB", zap.Error(err))
		}
	}
	return client.Database(settings.MongoDB), disconnect, nil
}

// NewResolver tạo resolver theo file cấu hình thuật toán
func NewResolver(settings *config.Settings, idx *gazetteer.Index, logger *zap.Logger) (*resolver.Resolver, error) {
	cfg, err := config.Load(settings.ResolverConfigPath)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ToOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, resolver.WithLogger(logger), resolver.WithObserver(metrics.Observer{}))
	return resolver.New(idx, opts...)
}

// NewCache cache kết quả: memory, thêm Redis làm L2 khi có REDIS_URL.
// Trả về nil khi cache bị tắt.
func NewCache(settings *config.Settings, logger *zap.Logger) services.ICacheService {
	if !settings.CacheEnabled {
		return nil
	}
	memory := services.NewMemoryCacheService(settings.CacheSize, settings.CacheTTL)
	if settings.RedisURL == "" {
		return memory
	}

	redisCache, err := services.NewRedisCacheService(settings.RedisURL, logger)
	if err != nil {
		logger.Warn("Redis không khả dụng, chỉ dùng memory cache", zap.Error(err))
		return memory
	}
	redisCache.SetTTL(settings.CacheTTL)
	return services.NewHybridCacheService(memory, redisCache, logger)
}

// NewPublisher publisher Meilisearch; nil khi chưa cấu hình hoặc không kết nối được
func NewPublisher(settings *config.Settings, logger *zap.Logger) *search.Publisher {
	if settings.MeiliURL == "" {
		return nil
	}
	publisher, err := search.NewPublisher(search.Config{
		Host:      settings.MeiliURL,
		APIKey:    settings.MeiliKey,
		IndexName: settings.MeiliIndex,
	}, logger)
	if err != nil {
		logger.Warn("Meilisearch không khả dụng, tắt publish", zap.Error(err))
		return nil
	}
	return publisher
}
