package segmenter

import (
	"testing"

	"github.com/address-resolver/internal/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	rules, err := normalizer.LoadRules()
	require.NoError(t, err)
	return New(rules)
}

func TestSplitParts(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{"reverse order", "phường bến nghé, quận 1, tp hồ chí minh", []string{"tp hồ chí minh", "quận 1", "phường bến nghé"}},
		{"semicolon and blanks", "a, b;c ,, d", []string{"d", "c", "b", "a"}},
		{"single", "dac lak", []string{"dac lak"}},
		{"empty", "", []string{}},
		{"separators only", " , ; ", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitParts(tc.input))
		})
	}
}

func TestRemoveRedundant(t *testing.T) {
	assert.Equal(t, "a, b ,c", RemoveRedundant("a,, b , ,c"))
	assert.Equal(t, "hà nội", RemoveRedundant(",hà nội,"))
	assert.Equal(t, "", RemoveRedundant(" , "))
}

func TestRepairDuplicate(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"repeated province", "hà nội, hà nội, ba đình", "hà nội, ba đình"},
		{"repeated pair", "a, a", "a"},
		{"no repetition", "23 nguyễn huệ, phường bến nghé, quận 1, tp hồ chí minh", "23 nguyễn huệ, phường bến nghé, quận 1, tp hồ chí minh"},
		{"repetition too far", "hà nội, quận ba đình, hà nội", "hà nội, quận ba đình, hà nội"},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RepairDuplicate(tc.input))
		})
	}
}

func TestRepairHyphens(t *testing.T) {
	s := newTestSegmenter(t)

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"exception pair", "xã xuân hương - đà lạt, lâm đồng", "xã xuân hương - đà lạt, lâm đồng"},
		{"exception pair unaccented", "ba ria - vung tau", "ba ria - vung tau"},
		{"numeric range", "lô 12-15, khu a", "lô 12-15, khu a"},
		{"short code", "ngõ 5-b, hà nội", "ngõ 5-b, hà nội"},
		{"building prefix", "khu a-ct", "khu a,ct"},
		{"two tiers", "phường bến nghé - quận 1", "phường bến nghé , quận 1"},
		{"no hyphen", "quận 1", "quận 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, s.RepairHyphens(tc.input))
		})
	}
}

func TestPrepare(t *testing.T) {
	s := newTestSegmenter(t)

	t.Run("country and dots", func(t *testing.T) {
		got := s.Prepare("23 Nguyễn Huệ, Phường Bến Nghé, Quận 1, TP. Hồ Chí Minh, Việt Nam")
		assert.Equal(t, "23 nguyễn huệ, phường bến nghé, quận 1, tp hồ chí minh", got)
	})

	t.Run("en dash folded", func(t *testing.T) {
		got := s.Prepare("Bà Rịa – Vũng Tàu")
		assert.Equal(t, "bà rịa - vũng tàu", got)
	})

	t.Run("vn token", func(t *testing.T) {
		assert.Equal(t, "hà nội", s.Prepare("Hà Nội, VN"))
	})
}

func TestSegments(t *testing.T) {
	s := newTestSegmenter(t)

	assert.Equal(t,
		[]string{"lâm đồng", "xã xuân hương - đà lạt"},
		s.Segments("Xã Xuân Hương - Đà Lạt, Lâm Đồng"))

	assert.Equal(t,
		[]string{"ba đình", "hà nội"},
		s.Segments("Hà Nội, Hà Nội, Ba Đình"))
}
