package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/address-resolver/internal/matcher"
	"github.com/address-resolver/internal/resolver"
	"gopkg.in/yaml.v3"
)

type Thresholds struct {
	Province int `yaml:"province" json:"province"`
	Alias    int `yaml:"alias" json:"alias"`
	District int `yaml:"district" json:"district"`
	Ward     int `yaml:"ward" json:"ward"`
	Scope    int `yaml:"scope" json:"scope"`
}

type ResolverCfg struct {
	Thresholds     Thresholds `yaml:"thresholds" json:"thresholds"`
	ScopeTopK      int        `yaml:"scope_topk" json:"scope_topk"`
	FallbackPolicy string     `yaml:"fallback_policy" json:"fallback_policy"`
	ScopeCacheSize int        `yaml:"scope_cache_size" json:"scope_cache_size"`
}

// Default cấu hình mặc định của resolver
func Default() ResolverCfg {
	th := matcher.DefaultThresholds()
	return ResolverCfg{
		Thresholds: Thresholds{
			Province: th.Province,
			Alias:    th.Alias,
			District: th.District,
			Ward:     th.Ward,
			Scope:    th.Scope,
		},
		ScopeTopK:      5,
		FallbackPolicy: string(resolver.FallbackAfterSubdivision),
		ScopeCacheSize: 256,
	}
}

// Load đọc file YAML đè lên Default. File không tồn tại thì dùng Default.
func Load(path string) (ResolverCfg, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("lỗi parse %s: %w", path, err)
			}
		}
	}

	// ENV overrides
	if v := os.Getenv("RESOLVER_FALLBACK"); v != "" {
		cfg.FallbackPolicy = v
	}
	if v := os.Getenv("RESOLVER_PROVINCE_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("RESOLVER_PROVINCE_THRESHOLD không hợp lệ: %w", err)
		}
		cfg.Thresholds.Province = n
	}
	return cfg, cfg.Validate()
}

// Validate kiểm tra ngưỡng nằm trong [0,100] và policy hợp lệ
func (c ResolverCfg) Validate() error {
	for name, v := range map[string]int{
		"province": c.Thresholds.Province,
		"alias":    c.Thresholds.Alias,
		"district": c.Thresholds.District,
		"ward":     c.Thresholds.Ward,
		"scope":    c.Thresholds.Scope,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("ngưỡng %s phải nằm trong [0,100], nhận %d", name, v)
		}
	}
	if c.ScopeTopK <= 0 {
		return fmt.Errorf("scope_topk phải > 0, nhận %d", c.ScopeTopK)
	}
	_, err := resolver.ParseFallbackPolicy(c.FallbackPolicy)
	return err
}

// ToOptions chuyển cấu hình thành option của resolver
func (c ResolverCfg) ToOptions() ([]resolver.Option, error) {
	policy, err := resolver.ParseFallbackPolicy(c.FallbackPolicy)
	if err != nil {
		return nil, err
	}
	return []resolver.Option{
		resolver.WithThresholds(matcher.Thresholds{
			Province: c.Thresholds.Province,
			Alias:    c.Thresholds.Alias,
			District: c.Thresholds.District,
			Ward:     c.Thresholds.Ward,
			Scope:    c.Thresholds.Scope,
		}),
		resolver.WithScopeLimit(c.ScopeTopK),
		resolver.WithFallbackPolicy(policy),
		resolver.WithScopeCacheSize(c.ScopeCacheSize),
	}, nil
}

func RequestTimeout() time.Duration { return 1500 * time.Millisecond }
