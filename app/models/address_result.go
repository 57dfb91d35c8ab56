package models

import (
	"time"

	"github.com/address-resolver/internal/resolver"
)

// AddressResult kết quả resolve một địa chỉ, dùng cho cache và batch job
type AddressResult struct {
	Raw              string                 `json:"raw"`                // Địa chỉ gốc
	Fingerprint      string                 `json:"fingerprint"`        // sha256(version + địa chỉ chuẩn hóa)
	GazetteerVersion string                 `json:"gazetteer_version"`  // Phiên bản gazetteer lúc resolve
	Parsed           resolver.ParsedAddress `json:"parsed"`             // Kết quả
	Segments         []string               `json:"segments,omitempty"` // Các đoạn sau khi tách
	Forced           bool                   `json:"forced"`             // Tỉnh có được gán bằng forced mode không
	Trace            []resolver.Step        `json:"trace,omitempty"`    // Các bước gán
	Status           string                 `json:"status"`             // Trạng thái xử lý
	ResolvedAt       time.Time              `json:"resolved_at"`        // Thời điểm resolve
	Error            string                 `json:"error,omitempty"`    // Lỗi (chỉ có trong batch)
}

// Status constants
const (
	StatusResolved = "resolved" // tỉnh tìm được qua classifier/fuzzy
	StatusForced   = "forced"   // tỉnh được gán bằng forced mode
	StatusEmpty    = "empty"    // địa chỉ rỗng
)

// NewAddressResult tạo AddressResult từ một Resolution
func NewAddressResult(raw, fingerprint, version string, res resolver.Resolution) *AddressResult {
	status := StatusResolved
	switch {
	case res.Parsed.Province == "":
		status = StatusEmpty
	case res.Forced:
		status = StatusForced
	}
	return &AddressResult{
		Raw:              raw,
		Fingerprint:      fingerprint,
		GazetteerVersion: version,
		Parsed:           res.Parsed,
		Segments:         res.Segments,
		Forced:           res.Forced,
		Trace:            res.Trace,
		Status:           status,
		ResolvedAt:       time.Now().UTC(),
	}
}

// WithoutTrace bản sao không kèm trace
func (r AddressResult) WithoutTrace() *AddressResult {
	r.Trace = nil
	return &r
}
