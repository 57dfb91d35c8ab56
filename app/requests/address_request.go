package requests

// ParseAddressRequest request parse địa chỉ đơn lẻ
type ParseAddressRequest struct {
	Address string       `json:"address" binding:"required"` // Địa chỉ cần parse
	Options ParseOptions `json:"options,omitempty"`          // Tùy chọn parse
}

// ParseOptions tùy chọn parse
type ParseOptions struct {
	UseCache     *bool `json:"use_cache,omitempty"`     // Có sử dụng cache không (mặc định có)
	IncludeTrace bool  `json:"include_trace,omitempty"` // Có trả về các bước gán không
}

// CacheEnabled mặc định dùng cache khi client không chỉ định
func (o ParseOptions) CacheEnabled() bool {
	return o.UseCache == nil || *o.UseCache
}

// BatchParseRequest request parse hàng loạt địa chỉ
type BatchParseRequest struct {
	Addresses []string     `json:"addresses" binding:"required,min=1,max=20000"` // Danh sách địa chỉ (tối đa 20k)
	Options   ParseOptions `json:"options,omitempty"`                            // Tùy chọn parse
}

// TagAddressRequest request gắn nhãn BIO cho địa chỉ
type TagAddressRequest struct {
	Address string `json:"address" binding:"required"`
}
