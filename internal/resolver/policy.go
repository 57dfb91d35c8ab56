package resolver

import (
	"fmt"
	"strings"

	"github.com/address-resolver/internal/gazetteer"
)

// FallbackPolicy quyết định có gán thẳng một đoạn không khớp phường nào
// làm sub-subdivision hay không, dựa trên cấp vừa resolve gần nhất
type FallbackPolicy string

const (
	// FallbackAfterSubdivision gán đoạn làm phường/xã khi cấp gần nhất là quận/huyện
	FallbackAfterSubdivision FallbackPolicy = "after_subdivision"
	// FallbackNone không bao giờ gán khi chưa khớp với pool
	FallbackNone FallbackPolicy = "none"
)

// Applies true nếu policy cho phép gán khi cấp gần nhất là last
func (p FallbackPolicy) Applies(last gazetteer.Tier) bool {
	switch p {
	case FallbackAfterSubdivision:
		return last == gazetteer.TierDistrict
	default:
		return false
	}
}

// ParseFallbackPolicy đọc tên policy từ config
func ParseFallbackPolicy(name string) (FallbackPolicy, error) {
	switch p := FallbackPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return FallbackAfterSubdivision, nil
	case FallbackAfterSubdivision, FallbackNone:
		return p, nil
	default:
		return "", fmt.Errorf("fallback policy không hợp lệ: %q", name)
	}
}
