package services

import (
	"context"
	"testing"
	"time"

	"github.com/address-resolver/app/models"
	"github.com/address-resolver/app/requests"
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/resolver"
	"github.com/address-resolver/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	rules, err := normalizer.LoadRules()
	require.NoError(t, err)
	idx := gazetteer.Build(
		[]gazetteer.Record{
			{Province: "Hồ Chí Minh", Subunit: "Quận 1"},
			{Province: "Hồ Chí Minh", Subunit: "Quận 3"},
			{Province: "Hà Nội", Subunit: "Quận Ba Đình"},
		},
		[]gazetteer.Record{
			{Province: "Hồ Chí Minh", Subunit: "Phường Bến Thành"},
			{Province: "Hà Nội", Subunit: "Phường Ba Đình"},
		},
		rules.AliasTable(),
	)
	r, err := resolver.New(idx)
	require.NoError(t, err)
	return r
}

func noCache() requests.ParseOptions {
	off := false
	return requests.ParseOptions{UseCache: &off}
}

func TestMemoryCacheService(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheService(2, time.Minute)

	_, found, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "a", &models.AddressResult{Raw: "a"}))
	got, found, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a", got.Raw)

	ok, _ := cache.Exists(ctx, "a")
	assert.True(t, ok)
	ttl, _ := cache.GetTTL(ctx, "a")
	assert.Equal(t, time.Minute, ttl)

	// vượt dung lượng thì mục cũ nhất bị loại
	require.NoError(t, cache.Set(ctx, "b", &models.AddressResult{Raw: "b"}))
	require.NoError(t, cache.Set(ctx, "c", &models.AddressResult{Raw: "c"}))
	ok, _ = cache.Exists(ctx, "a")
	assert.False(t, ok)

	stats, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMiss)
	assert.Equal(t, int64(2), stats.TotalItems)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)

	require.NoError(t, cache.Clear(ctx))
	stats, _ = cache.GetStats(ctx)
	assert.Zero(t, stats.TotalItems)
}

func TestHybridCacheService_BackfillsL1(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCacheService(10, time.Minute)
	l2 := NewMemoryCacheService(10, time.Minute)
	hybrid := NewHybridCacheService(l1, l2, nil)

	require.NoError(t, l2.Set(ctx, "k", &models.AddressResult{Raw: "chỉ có ở L2"}))

	got, found, err := hybrid.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "chỉ có ở L2", got.Raw)

	inL1, _ := l1.Exists(ctx, "k")
	assert.True(t, inL1)

	require.NoError(t, hybrid.Set(ctx, "x", &models.AddressResult{Raw: "x"}))
	inL2, _ := l2.Exists(ctx, "x")
	assert.True(t, inL2)

	require.NoError(t, hybrid.Delete(ctx, "x"))
	inL1, _ = l1.Exists(ctx, "x")
	inL2, _ = l2.Exists(ctx, "x")
	assert.False(t, inL1)
	assert.False(t, inL2)

	require.NoError(t, hybrid.Clear(ctx))
	inL1, _ = l1.Exists(ctx, "k")
	assert.False(t, inL1)
}

func TestAddressService_ParseAddress(t *testing.T) {
	ctx := context.Background()
	svc := NewAddressService(testResolver(t), NewMemoryCacheService(100, time.Minute), 2, nil)

	result, hit, err := svc.ParseAddress(ctx, "Phường Bến Thành, Quận 1, Hồ Chí Minh", requests.ParseOptions{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "hồ chí minh", result.Parsed.Province)
	assert.Equal(t, "quận 1", result.Parsed.Subdivision)
	assert.Equal(t, []string{"phường bến thành"}, result.Parsed.SubSubdivision)
	assert.Equal(t, models.StatusResolved, result.Status)
	assert.Nil(t, result.Trace)
	assert.Equal(t, svc.GazetteerVersion(), result.GazetteerVersion)

	// cùng địa chỉ sau chuẩn hóa thì trúng cache
	again, hit, err := svc.ParseAddress(ctx, "  PHƯỜNG BẾN THÀNH,  Quận 1, Hồ  Chí Minh ", requests.ParseOptions{IncludeTrace: true})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, result.Parsed, again.Parsed)
	assert.NotEmpty(t, again.Trace)
	assert.Equal(t, "  PHƯỜNG BẾN THÀNH,  Quận 1, Hồ  Chí Minh ", again.Raw)

	first, hit, err := svc.ParseAddress(ctx, "Phường Bến Thành, Quận 1, Hồ Chí Minh", requests.ParseOptions{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Phường Bến Thành, Quận 1, Hồ Chí Minh", first.Raw)

	_, hit, err = svc.ParseAddress(ctx, "Phường Bến Thành, Quận 1, Hồ Chí Minh", noCache())
	require.NoError(t, err)
	assert.False(t, hit)

	_, _, err = svc.ParseAddress(ctx, "   ", requests.ParseOptions{})
	assert.ErrorIs(t, err, resolver.ErrEmptyAddress)

	stats := svc.GetStats()
	assert.Equal(t, int64(2), stats.TotalProcessed)
}

func TestAddressService_Fingerprint(t *testing.T) {
	svc := NewAddressService(testResolver(t), nil, 1, nil)
	a := svc.Fingerprint("Quận 1, Hồ Chí Minh")
	assert.Len(t, a, 64)
	assert.Equal(t, a, svc.Fingerprint("quận 1,   hồ chí minh"))
	assert.NotEqual(t, a, svc.Fingerprint("Quận 3, Hồ Chí Minh"))
}

func TestAddressService_BatchKeepsOrder(t *testing.T) {
	svc := NewAddressService(testResolver(t), nil, 3, nil)
	addresses := []string{
		"Phường Bến Thành, Quận 1, Hồ Chí Minh",
		"",
		"Phường Ba Đình, Hà Nội",
		"Quận 3, Hồ Chí Minh",
	}

	job, err := svc.SubmitBatch(addresses, requests.ParseOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, len(addresses), job.Total)

	require.Eventually(t, func() bool {
		current, err := svc.GetJob(job.ID)
		return err == nil && current.Status == models.JobStatusDone
	}, 5*time.Second, 10*time.Millisecond)

	results, err := svc.GetJobResults(job.ID)
	require.NoError(t, err)
	require.Len(t, results, len(addresses))
	for i, r := range results {
		assert.Equal(t, addresses[i], r.Raw)
	}
	assert.Equal(t, "hồ chí minh", results[0].Parsed.Province)
	assert.Equal(t, models.StatusEmpty, results[1].Status)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, "hà nội", results[2].Parsed.Province)
	assert.Equal(t, "quận 3", results[3].Parsed.Subdivision)

	stream, err := svc.GetJobResultsStream(context.Background(), job.ID)
	require.NoError(t, err)
	var streamed []string
	for r := range stream {
		streamed = append(streamed, r.Raw)
	}
	assert.Equal(t, addresses, streamed)

	current, _ := svc.GetJob(job.ID)
	assert.Equal(t, 1.0, current.Progress())
}

func TestAddressService_JobErrors(t *testing.T) {
	svc := NewAddressService(testResolver(t), nil, 1, nil)

	_, err := svc.GetJob("không-có")
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = svc.GetJobResults("không-có")
	assert.ErrorIs(t, err, ErrJobNotFound)

	_, err = svc.SubmitBatch(nil, requests.ParseOptions{})
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
	_, err = svc.SubmitBatch(make([]string, MaxBatchSize+1), requests.ParseOptions{})
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
}

func TestAddressService_Tag(t *testing.T) {
	svc := NewAddressService(testResolver(t), nil, 1, nil)
	tokens, entities, err := svc.Tag("Quận 1, Hồ Chí Minh")
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
	assert.Equal(t, "B-DISTRICT", tokens[0].Entity)

	labels := map[string]string{}
	for _, e := range entities {
		labels[e.Label] = e.Text
	}
	assert.Equal(t, "Quận 1", labels["DISTRICT"])
	assert.Equal(t, "Hồ Chí Minh", labels["PROVINCE"])

	_, _, err = svc.Tag(" ")
	assert.ErrorIs(t, err, resolver.ErrEmptyAddress)
}

func TestAddressService_TagKeepsSourceSpelling(t *testing.T) {
	svc := NewAddressService(testResolver(t), nil, 1, nil)
	text := "Phường Bến Thành, Quận 1, TP. Hồ Chí Minh"

	_, entities, err := svc.Tag(text)
	require.NoError(t, err)

	labels := map[string]string{}
	for _, e := range entities {
		labels[e.Label] = text[e.Start:e.End]
	}
	assert.Equal(t, "Phường Bến Thành", labels["WARD"])
	assert.Equal(t, "Quận 1", labels["DISTRICT"])
	assert.Equal(t, "TP. Hồ Chí Minh", labels["PROVINCE"])
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	r := testResolver(t)
	cache := NewMemoryCacheService(10, time.Minute)
	addresses := NewAddressService(r, cache, 1, nil)
	admin := NewAdminService(r, addresses, cache, nil, nil)

	_, _, err := addresses.ParseAddress(ctx, "Quận 1, Hồ Chí Minh", requests.ParseOptions{})
	require.NoError(t, err)

	stats := admin.GetStats(ctx)
	assert.Equal(t, r.Index().Version(), stats.Gazetteer.Version)
	assert.Equal(t, int64(1), stats.CacheItems)
	assert.Equal(t, int64(1), stats.TotalProcessed)

	require.NoError(t, admin.InvalidateCache(ctx))
	assert.Zero(t, admin.GetStats(ctx).CacheItems)
	assert.Zero(t, r.ScopeStats())

	_, err = admin.Publish(ctx)
	assert.ErrorIs(t, err, search.ErrNotConfigured)
}
