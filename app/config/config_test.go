package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/address-resolver/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resolver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("partial file overrides", func(t *testing.T) {
		cfg, err := Load(writeFile(t, "thresholds:\n  ward: 90\nfallback_policy: none\n"))
		require.NoError(t, err)
		assert.Equal(t, 90, cfg.Thresholds.Ward)
		assert.Equal(t, 80, cfg.Thresholds.Province)
		assert.Equal(t, "none", cfg.FallbackPolicy)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "thresholds: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		_, err := Load(writeFile(t, "thresholds:\n  district: 120\n"))
		assert.Error(t, err)
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RESOLVER_FALLBACK", "none")
	t.Setenv("RESOLVER_PROVINCE_THRESHOLD", "75")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.FallbackPolicy)
	assert.Equal(t, 75, cfg.Thresholds.Province)

	t.Setenv("RESOLVER_PROVINCE_THRESHOLD", "abc")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("RESOLVER_PROVINCE_THRESHOLD", "")
	t.Setenv("RESOLVER_FALLBACK", "always")
	_, err = Load("")
	assert.Error(t, err)
}

func TestToOptions(t *testing.T) {
	opts, err := Default().ToOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	cfg := Default()
	cfg.FallbackPolicy = "sometimes"
	_, err = cfg.ToOptions()
	assert.Error(t, err)

	_, err = resolver.ParseFallbackPolicy(Default().FallbackPolicy)
	assert.NoError(t, err)
}

func TestLoad_RepositoryConfig(t *testing.T) {
	cfg, err := Load("../../config/resolver.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
