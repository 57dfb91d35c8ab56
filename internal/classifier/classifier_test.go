package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		segment  string
		expected Markers
	}{
		{"tp hồ chí minh", Markers{Province: true, District: true}},
		{"thành phố đà lạt", Markers{Province: true, District: true}},
		{"tỉnh lâm đồng", Markers{Province: true}},
		{"tinh lam dong", Markers{Province: true}},
		{"quận 1", Markers{District: true}},
		{"q1", Markers{District: true}},
		{"q 3", Markers{District: true}},
		{"huyện củ chi", Markers{District: true}},
		{"h hoài đức", Markers{District: true}},
		{"thị xã phú mỹ", Markers{District: true}},
		{"tx phú mỹ", Markers{District: true}},
		{"phường bến nghé", Markers{Ward: true}},
		{"p12", Markers{Ward: true}},
		{"xã xuân hương - đà lạt", Markers{Ward: true}},
		{"thị trấn cần thạnh", Markers{Ward: true}},
		{"tt cần thạnh", Markers{Ward: true}},
		{"đặc khu phú quốc", Markers{Ward: true}},
		{"khu phố 3", Markers{Ward: true}},
		// không được khớp nhầm tiền tố một ký tự với chữ có dấu
		{"hà nội", Markers{}},
		{"huế", Markers{}},
		{"tân bình", Markers{}},
		{"xuân trường", Markers{}},
		{"phú nhuận", Markers{}},
		{"23 nguyễn huệ", Markers{}},
		{"kp3", Markers{}},
		{"lâm đồng", Markers{}},
	}

	for _, tc := range testCases {
		t.Run(tc.segment, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.segment))
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.True(t, IsWard("PHƯỜNG Bến Nghé"))
	assert.True(t, IsDistrict("Quận 1"))
	assert.True(t, IsProvince("TP Hồ Chí Minh"))
}

func TestMarkers_LowerTier(t *testing.T) {
	assert.True(t, Classify("phường 5").LowerTier())
	assert.True(t, Classify("quận 1").LowerTier())
	assert.False(t, Classify("tp hồ chí minh").LowerTier())
	assert.False(t, Classify("hà nội").LowerTier())
	assert.False(t, Classify("hà nội").Any())
}
