package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/address-resolver/app/responses"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/internal/search"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController controller xử lý các request admin và health check
type AdminController struct {
	adminService   *services.AdminService
	addressService *services.AddressService
	logger         *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(adminService *services.AdminService, addressService *services.AddressService, logger *zap.Logger) *AdminController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminController{
		adminService:   adminService,
		addressService: addressService,
		logger:         logger,
	}
}

// GetStats lấy thống kê hệ thống
func (ac *AdminController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, ac.adminService.GetStats(c.Request.Context()))
}

// InvalidateCache xóa cache kết quả
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	if err := ac.adminService.InvalidateCache(c.Request.Context()); err != nil {
		ac.logger.Error("Lỗi invalidate cache", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "CACHE_ERROR", "Lỗi xóa cache: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Đã xóa cache",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// PublishIndex đẩy gazetteer lên Meilisearch
func (ac *AdminController) PublishIndex(c *gin.Context) {
	report, err := ac.adminService.Publish(c.Request.Context())
	if errors.Is(err, search.ErrNotConfigured) {
		errorResponse(c, http.StatusServiceUnavailable, "SEARCH_NOT_CONFIGURED", err.Error())
		return
	}
	if err != nil {
		ac.logger.Error("Lỗi publish gazetteer", zap.Error(err))
		errorResponse(c, http.StatusBadGateway, "PUBLISH_ERROR", "Lỗi publish: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AdminController) HealthCheck(c *gin.Context) {
	stats := ac.adminService.GetStats(c.Request.Context())
	status := "healthy"
	gazetteer := "healthy"
	if stats.Gazetteer.Provinces == 0 {
		status = "degraded"
		gazetteer = "empty"
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(ac.addressService.GetStartTime()).Round(time.Second).String(),
		Version:   stats.Gazetteer.Version,
		Services: map[string]string{
			"resolver":  "healthy",
			"gazetteer": gazetteer,
		},
	})
}

// Ready sẵn sàng khi gazetteer có dữ liệu
func (ac *AdminController) Ready(c *gin.Context) {
	stats := ac.adminService.GetStats(c.Request.Context())
	if stats.Gazetteer.Provinces == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live luôn trả về ok khi process còn chạy
func (ac *AdminController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
