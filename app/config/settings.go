package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings cấu hình của service (không phải của thuật toán resolve)
type Settings struct {
	Env  string
	Port string

	ResolverConfigPath string

	DataSource  string
	LegacyPath  string
	CurrentPath string
	MongoURL    string
	MongoDB     string

	CacheEnabled bool
	CacheSize    int
	RedisURL     string
	CacheTTL     time.Duration

	MeiliURL   string
	MeiliKey   string
	MeiliIndex string

	RateLimitPerSecond float64
	RateLimitBurst     int
	BatchWorkers       int
}

// LoadSettings đọc .env (nếu có), config/app.yaml (nếu có) rồi biến môi trường
func LoadSettings() (*Settings, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("app_env", "development")
	v.SetDefault("app_port", "8080")
	v.SetDefault("resolver_config", "config/resolver.yaml")
	v.SetDefault("data_source", "file")
	v.SetDefault("legacy_path", "data/old_address.json")
	v.SetDefault("current_path", "data/new_address.json")
	v.SetDefault("mongo_url", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "address_resolver")
	v.SetDefault("cache_enabled", true)
	v.SetDefault("cache_size", 10000)
	v.SetDefault("redis_url", "")
	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("meili_url", "")
	v.SetDefault("meili_key", "")
	v.SetDefault("meili_index", "admin_units")
	v.SetDefault("rate_limit_rps", 200.0)
	v.SetDefault("rate_limit_burst", 400)
	v.SetDefault("batch_workers", 8)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Settings{
		Env:                v.GetString("app_env"),
		Port:               v.GetString("app_port"),
		ResolverConfigPath: v.GetString("resolver_config"),
		DataSource:         v.GetString("data_source"),
		LegacyPath:         v.GetString("legacy_path"),
		CurrentPath:        v.GetString("current_path"),
		MongoURL:           v.GetString("mongo_url"),
		MongoDB:            v.GetString("mongo_db"),
		CacheEnabled:       v.GetBool("cache_enabled"),
		CacheSize:          v.GetInt("cache_size"),
		RedisURL:           v.GetString("redis_url"),
		CacheTTL:           v.GetDuration("cache_ttl"),
		MeiliURL:           v.GetString("meili_url"),
		MeiliKey:           v.GetString("meili_key"),
		MeiliIndex:         v.GetString("meili_index"),
		RateLimitPerSecond: v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		BatchWorkers:       v.GetInt("batch_workers"),
	}, nil
}

// Production true khi APP_ENV=production
func (s *Settings) Production() bool { return s.Env == "production" }
