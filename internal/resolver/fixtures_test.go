package resolver

import (
	"testing"

	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/normalizer"
	"github.com/stretchr/testify/require"
)

func legacyFixture() []gazetteer.Record {
	return records(map[string][]string{
		"Hồ Chí Minh":       {"Quận 1", "Quận 3", "Quận Bình Thạnh"},
		"Hà Nội":            {"Quận Ba Đình", "Quận Hoàn Kiếm"},
		"Lâm Đồng":          {"Thành phố Đà Lạt", "Huyện Lạc Dương"},
		"ĐắkLắk":            {"Thành phố Buôn Ma Thuột"},
		"Bà Rịa - Vũng Tàu": {"Thành phố Vũng Tàu"},
		"Thừa Thiên - Huế":  {"Thành phố Huế"},
		"Kon Tum":           {"Thành phố Kon Tum"},
		"Gia Lai":           {"Thành phố Pleiku"},
	})
}

func currentFixture() []gazetteer.Record {
	return records(map[string][]string{
		"Hồ Chí Minh": {"Phường Sài Gòn", "Phường Tân Định", "Phường Bến Thành"},
		"Hà Nội":      {"Phường Ba Đình", "Phường Hoàn Kiếm", "Xã Sóc Sơn"},
		"Lâm Đồng":    {"Phường Xuân Hương - Đà Lạt", "Phường Cam Ly - Đà Lạt", "Xã Lạc Dương"},
		"ĐắkLắk":      {"Phường Buôn Ma Thuột"},
		"Gia Lai":     {"Phường Pleiku"},
	})
}

func records(tree map[string][]string) []gazetteer.Record {
	var out []gazetteer.Record
	for province, subunits := range tree {
		for _, s := range subunits {
			out = append(out, gazetteer.Record{Province: province, Subunit: s})
		}
	}
	return out
}

func fixtureIndex(t *testing.T) *gazetteer.Index {
	t.Helper()
	rules, err := normalizer.LoadRules()
	require.NoError(t, err)
	return gazetteer.Build(legacyFixture(), currentFixture(), rules.AliasTable())
}

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	r, err := New(fixtureIndex(t), opts...)
	require.NoError(t, err)
	return r
}

func emptyResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := New(gazetteer.Build(nil, nil, nil))
	require.NoError(t, err)
	return r
}
