package responses

import (
	"github.com/address-resolver/internal/ner"
	"github.com/address-resolver/internal/resolver"
)

// ParseAddressResponse response parse địa chỉ đơn lẻ
type ParseAddressResponse struct {
	GazetteerVersion string                 `json:"gazetteer_version"`  // Phiên bản gazetteer
	Result           resolver.ParsedAddress `json:"result"`             // Kết quả parse
	Status           string                 `json:"status"`             // resolved | forced | empty
	Segments         []string               `json:"segments,omitempty"` // Các đoạn sau khi tách
	Trace            []resolver.Step        `json:"trace,omitempty"`    // Các bước gán
	CacheHit         bool                   `json:"cache_hit"`          // Có hit cache không
	ProcessingTimeMs int64                  `json:"processing_time_ms"` // Thời gian xử lý (ms)
}

// BatchParseResponse response parse hàng loạt địa chỉ
type BatchParseResponse struct {
	JobID            string `json:"job_id"`            // ID của job
	EstimatedSeconds int    `json:"estimated_seconds"` // Thời gian ước tính (giây)
	TotalAddresses   int    `json:"total_addresses"`   // Tổng số địa chỉ
	Message          string `json:"message"`           // Thông báo
}

// JobStatusResponse response trạng thái job
type JobStatusResponse struct {
	JobID     string  `json:"job_id"`          // ID của job
	Status    string  `json:"status"`          // Trạng thái job
	Progress  float64 `json:"progress"`        // Tiến độ (0.0 - 1.0)
	Processed int     `json:"processed"`       // Số địa chỉ đã xử lý
	Total     int     `json:"total"`           // Tổng số địa chỉ
	Error     string  `json:"error,omitempty"` // Lỗi nếu job thất bại
}

// TagAddressResponse token BIO và thực thể đã gom
type TagAddressResponse struct {
	Tokens   []ner.Token  `json:"tokens"`
	Entities []ner.Entity `json:"entities"`
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`                // Mã lỗi
	Message   string      `json:"message"`              // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"`    // Chi tiết lỗi
	Timestamp string      `json:"timestamp"`            // Thời gian xảy ra lỗi
	RequestID string      `json:"request_id,omitempty"` // ID của request
}

// SuccessResponse response thành công
type SuccessResponse struct {
	Success   bool        `json:"success"`        // Có thành công không
	Message   string      `json:"message"`        // Thông báo
	Data      interface{} `json:"data,omitempty"` // Dữ liệu
	Timestamp string      `json:"timestamp"`      // Thời gian
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // Trạng thái sức khỏe
	Timestamp string            `json:"timestamp"` // Thời gian kiểm tra
	Uptime    string            `json:"uptime"`    // Thời gian hoạt động
	Version   string            `json:"version"`   // Phiên bản gazetteer
	Services  map[string]string `json:"services"`  // Trạng thái các service
}
