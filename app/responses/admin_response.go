package responses

import "github.com/address-resolver/internal/gazetteer"

// AdminStatsResponse response thống kê admin
type AdminStatsResponse struct {
	Gazetteer       gazetteer.Stats `json:"gazetteer"`         // Thống kê gazetteer
	CacheHitRate    float64         `json:"cache_hit_rate"`    // Tỷ lệ hit cache
	CacheItems      int64           `json:"cache_items"`       // Số mục trong cache
	ScopeCacheItems int             `json:"scope_cache_items"` // Số tỉnh đang nhớ pool
	TotalProcessed  int64           `json:"total_processed"`   // Tổng số địa chỉ đã xử lý
	ForcedTotal     int64           `json:"forced_total"`      // Số địa chỉ phải dùng forced mode
	AvgProcessingMs float64         `json:"avg_processing_ms"` // Thời gian xử lý trung bình (ms)
	ActiveJobs      int             `json:"active_jobs"`       // Số job đang chạy
	UptimeSeconds   int64           `json:"uptime_seconds"`    // Thời gian hoạt động (giây)
	LastUpdated     string          `json:"last_updated"`      // Lần cập nhật cuối
}

// PublishResponse kết quả publish gazetteer lên Meilisearch
type PublishResponse struct {
	Index            string  `json:"index"`
	Documents        int     `json:"documents"`
	Batches          int     `json:"batches"`
	TaskUIDs         []int64 `json:"task_uids"`
	GazetteerVersion string  `json:"gazetteer_version"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
}
