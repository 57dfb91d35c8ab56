package classifier

import (
	"regexp"
	"strings"
)

// wordEnd thay cho \b: RE2 chỉ hiểu ranh giới từ ASCII nên "h" sẽ khớp
// đầu "hà" nếu dùng \b. Ký tự có dấu được tính là chữ.
const wordEnd = `(?:[^\p{L}\p{M}\p{N}_]|$)`

func prefix(alternatives ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + strings.Join(alternatives, "|") + `)` + wordEnd)
}

var (
	provincePattern = prefix(
		`tp\.?\s?`, `t\.?\s?`, `thanh pho`, `thành phố`, `tinh`, `tỉnh`,
	)
	districtPattern = prefix(
		`q\.?\s?\d*`, `quan`, `quận`,
		`h\.?\s?`, `huyen`, `huyện`,
		`tp\.?`, `t\.p\.?`, `thanh pho`, `thành phố`,
		`thi xa`, `thị xã`, `tx\.?\s?`,
	)
	wardPattern = prefix(
		`p\.?\s?\d*`, `phuong`, `phường`,
		`xa`, `xã`, `x\.?`,
		`đặc khu`, `dac khu`, `dk\.?`,
		`thi tran`, `thị trấn`, `tt\.?`,
		`khu pho`, `khu phố`, `kp\.?`,
	)
)

// Markers các tiền tố cấp hành chính tường minh của một đoạn
type Markers struct {
	Province bool
	District bool
	Ward     bool
}

// Any true nếu có ít nhất một marker
func (m Markers) Any() bool { return m.Province || m.District || m.Ward }

// LowerTier true nếu đoạn mang marker phường/xã, hoặc marker quận/huyện
// mà không đồng thời là marker tỉnh
func (m Markers) LowerTier() bool {
	return m.Ward || (m.District && !m.Province)
}

// IsProvince đoạn bắt đầu bằng tiền tố tỉnh/thành phố
func IsProvince(segment string) bool { return provincePattern.MatchString(segment) }

// IsDistrict đoạn bắt đầu bằng tiền tố quận/huyện/thị xã
func IsDistrict(segment string) bool { return districtPattern.MatchString(segment) }

// IsWard đoạn bắt đầu bằng tiền tố phường/xã/thị trấn/đặc khu
func IsWard(segment string) bool { return wardPattern.MatchString(segment) }

// Classify chạy cả ba classifier
func Classify(segment string) Markers {
	return Markers{
		Province: IsProvince(segment),
		District: IsDistrict(segment),
		Ward:     IsWard(segment),
	}
}
