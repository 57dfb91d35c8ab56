package controllers

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/address-resolver/app/requests"
	"github.com/address-resolver/app/responses"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/internal/resolver"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey key lưu request id trong gin.Context
const RequestIDKey = "request_id"

// AddressController controller xử lý các request liên quan đến địa chỉ
type AddressController struct {
	addressService *services.AddressService
	logger         *zap.Logger
}

// NewAddressController tạo mới AddressController
func NewAddressController(addressService *services.AddressService, logger *zap.Logger) *AddressController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressController{
		addressService: addressService,
		logger:         logger,
	}
}

func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: c.GetString(RequestIDKey),
	})
}

// ParseAddress parse địa chỉ đơn lẻ
func (ac *AddressController) ParseAddress(c *gin.Context) {
	var req requests.ParseAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	startTime := time.Now()
	result, cacheHit, err := ac.addressService.ParseAddress(c.Request.Context(), req.Address, req.Options)
	if errors.Is(err, resolver.ErrEmptyAddress) {
		errorResponse(c, http.StatusBadRequest, "EMPTY_ADDRESS", "Địa chỉ rỗng")
		return
	}
	if err != nil {
		ac.logger.Error("Lỗi parse địa chỉ", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "PARSE_ERROR", "Lỗi parse địa chỉ: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, responses.ParseAddressResponse{
		GazetteerVersion: result.GazetteerVersion,
		Result:           result.Parsed,
		Status:           result.Status,
		Segments:         result.Segments,
		Trace:            result.Trace,
		CacheHit:         cacheHit,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// TagAddress gắn nhãn BIO cho địa chỉ
func (ac *AddressController) TagAddress(c *gin.Context) {
	var req requests.TagAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	tokens, entities, err := ac.addressService.Tag(req.Address)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "EMPTY_ADDRESS", "Địa chỉ rỗng")
		return
	}
	c.JSON(http.StatusOK, responses.TagAddressResponse{Tokens: tokens, Entities: entities})
}

// BatchParse parse hàng loạt địa chỉ
func (ac *AddressController) BatchParse(c *gin.Context) {
	var req requests.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	job, err := ac.addressService.SubmitBatch(req.Addresses, req.Options)
	if err != nil {
		batchError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, responses.BatchParseResponse{
		JobID:            job.ID,
		EstimatedSeconds: ac.addressService.EstimateBatchProcessingTime(job.Total),
		TotalAddresses:   job.Total,
		Message:          "Job đã được tạo và đang xử lý",
	})
}

// GetJobStatus lấy trạng thái job
func (ac *AddressController) GetJobStatus(c *gin.Context) {
	job, err := ac.addressService.GetJob(c.Param("jobID"))
	if err != nil {
		errorResponse(c, http.StatusNotFound, "JOB_NOT_FOUND", "Không tìm thấy job: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, responses.JobStatusResponse{
		JobID:     job.ID,
		Status:    job.Status,
		Progress:  job.Progress(),
		Processed: job.Processed,
		Total:     job.Total,
		Error:     job.Error,
	})
}

// GetJobResults lấy kết quả job với hỗ trợ NDJSON + gzip streaming
func (ac *AddressController) GetJobResults(c *gin.Context) {
	jobID := c.Param("jobID")
	if c.Query("format") == "ndjson" {
		ac.streamNDJSONResults(c, jobID, c.Query("gzip") == "1")
		return
	}

	results, err := ac.addressService.GetJobResults(jobID)
	if err != nil {
		ac.jobError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Lấy kết quả thành công",
		Data:      results,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func batchError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidBatchSize) {
		errorResponse(c, http.StatusBadRequest, "INVALID_BATCH_SIZE", err.Error())
		return
	}
	errorResponse(c, http.StatusInternalServerError, "BATCH_ERROR", "Lỗi tạo job: "+err.Error())
}

func (ac *AddressController) jobError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrJobNotReady) {
		errorResponse(c, http.StatusConflict, "JOB_NOT_READY", "Job chưa hoàn thành")
		return
	}
	errorResponse(c, http.StatusNotFound, "JOB_NOT_FOUND", "Không tìm thấy job: "+err.Error())
}

// streamNDJSONResults stream kết quả theo format NDJSON với hỗ trợ gzip
func (ac *AddressController) streamNDJSONResults(c *gin.Context, jobID string, gzipEnabled bool) {
	resultChannel, err := ac.addressService.GetJobResultsStream(c.Request.Context(), jobID)
	if err != nil {
		ac.jobError(c, err)
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	var writer gin.ResponseWriter = c.Writer
	if gzipEnabled {
		c.Header("Content-Encoding", "gzip")
		gzWriter := gzip.NewWriter(c.Writer)
		defer gzWriter.Close()
		writer = &gzipResponseWriter{
			ResponseWriter: c.Writer,
			gzWriter:       gzWriter,
		}
	}
	c.Status(http.StatusOK)

	encoder := json.NewEncoder(writer)
	for result := range resultChannel {
		if err := encoder.Encode(result); err != nil {
			ac.logger.Error("Lỗi encode NDJSON", zap.Error(err))
			break
		}
		writer.Flush()
	}
}

// gzipResponseWriter wrapper cho gzip writer
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzWriter.Write(data)
}

func (w *gzipResponseWriter) Flush() {
	w.gzWriter.Flush()
	w.ResponseWriter.Flush()
}
