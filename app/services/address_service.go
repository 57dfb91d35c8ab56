package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/address-resolver/app/models"
	"github.com/address-resolver/app/requests"
	"github.com/address-resolver/internal/metrics"
	"github.com/address-resolver/internal/ner"
	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/resolver"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrJobNotFound job không tồn tại
	ErrJobNotFound = errors.New("job không tồn tại")
	// ErrJobNotReady job chưa xử lý xong
	ErrJobNotReady = errors.New("job chưa hoàn thành")
	// ErrInvalidBatchSize số địa chỉ của batch nằm ngoài [1, MaxBatchSize]
	ErrInvalidBatchSize = errors.New("số địa chỉ phải trong khoảng 1 - 20000")
)

// MaxBatchSize số địa chỉ tối đa trong một job
const MaxBatchSize = 20000

// AddressService service xử lý logic resolve địa chỉ
type AddressService struct {
	resolver  *resolver.Resolver
	cache     ICacheService
	logger    *zap.Logger
	workers   int
	startTime time.Time

	// Job management
	mu   sync.RWMutex
	jobs map[string]*models.BatchJob

	processed  atomic.Int64
	forced     atomic.Int64
	totalNanos atomic.Int64
}

// ServiceStats thống kê xử lý của service
type ServiceStats struct {
	TotalProcessed  int64   `json:"total_processed"`
	ForcedTotal     int64   `json:"forced_total"`
	AvgProcessingMs float64 `json:"avg_processing_ms"`
	ActiveJobs      int     `json:"active_jobs"`
	UptimeSeconds   int64   `json:"uptime_seconds"`
}

// NewAddressService tạo mới AddressService; cache có thể nil
func NewAddressService(r *resolver.Resolver, cache ICacheService, workers int, logger *zap.Logger) *AddressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = 4
	}
	return &AddressService{
		resolver:  r,
		cache:     cache,
		logger:    logger,
		workers:   workers,
		startTime: time.Now(),
		jobs:      make(map[string]*models.BatchJob),
	}
}

// GazetteerVersion phiên bản gazetteer đang dùng
func (as *AddressService) GazetteerVersion() string {
	return as.resolver.Index().Version()
}

// Fingerprint khóa cache: sha256(phiên bản gazetteer + địa chỉ chuẩn hóa)
func (as *AddressService) Fingerprint(address string) string {
	sum := sha256.Sum256([]byte(as.GazetteerVersion() + "\x00" + normalizer.Canonicalize(address)))
	return hex.EncodeToString(sum[:])
}

// ParseAddress resolve một địa chỉ, có dùng cache. Trả về cờ cache hit.
func (as *AddressService) ParseAddress(ctx context.Context, rawAddress string, options requests.ParseOptions) (*models.AddressResult, bool, error) {
	if strings.TrimSpace(rawAddress) == "" {
		return nil, false, resolver.ErrEmptyAddress
	}

	key := as.Fingerprint(rawAddress)
	useCache := options.CacheEnabled() && as.cache != nil
	if useCache {
		cached, found, err := as.cache.Get(ctx, key)
		if err != nil {
			as.logger.Warn("Cache get failed", zap.Error(err))
		}
		if found {
			metrics.CacheHitsTotal.Inc()
			// kết quả cache dùng chung giữa các caller, Raw phải là của caller hiện tại
			hit := *cached
			hit.Raw = rawAddress
			return present(&hit, options), true, nil
		}
		metrics.CacheMissesTotal.Inc()
	}

	start := time.Now()
	res := as.resolver.ResolveDetailed(rawAddress)
	as.record(res, time.Since(start))

	result := models.NewAddressResult(rawAddress, key, as.GazetteerVersion(), res)
	if useCache {
		if err := as.cache.Set(ctx, key, result); err != nil {
			as.logger.Warn("Cache set failed", zap.Error(err))
		}
	}
	return present(result, options), false, nil
}

func present(result *models.AddressResult, options requests.ParseOptions) *models.AddressResult {
	if options.IncludeTrace {
		return result
	}
	return result.WithoutTrace()
}

func (as *AddressService) record(res resolver.Resolution, elapsed time.Duration) {
	as.processed.Add(1)
	as.totalNanos.Add(int64(elapsed))
	if res.Forced {
		as.forced.Add(1)
	}
}

// Tag gắn nhãn BIO cho địa chỉ theo kết quả resolve
func (as *AddressService) Tag(rawAddress string) ([]ner.Token, []ner.Entity, error) {
	if strings.TrimSpace(rawAddress) == "" {
		return nil, nil, resolver.ErrEmptyAddress
	}
	tokens := ner.TagResolution(rawAddress, as.resolver.ResolveDetailed(rawAddress))
	return tokens, ner.Group(tokens), nil
}

// EstimateBatchProcessingTime ước tính thời gian xử lý batch (giây)
func (as *AddressService) EstimateBatchProcessingTime(addressCount int) int {
	// khoảng 2ms mỗi địa chỉ trên mỗi worker
	estimatedMs := addressCount * 2 / as.workers
	return estimatedMs/1000 + 1
}

// SubmitBatch tạo job và xử lý nền
func (as *AddressService) SubmitBatch(addresses []string, options requests.ParseOptions) (models.BatchJob, error) {
	if len(addresses) == 0 || len(addresses) > MaxBatchSize {
		return models.BatchJob{}, ErrInvalidBatchSize
	}

	job := &models.BatchJob{
		ID:        uuid.NewString(),
		Status:    models.JobStatusPending,
		Total:     len(addresses),
		CreatedAt: time.Now().UTC(),
	}
	as.mu.Lock()
	as.jobs[job.ID] = job
	snapshot := *job
	as.mu.Unlock()

	go as.processBatchJob(job.ID, addresses, options)
	return snapshot, nil
}

// processBatchJob fan-out trên worker pool, kết quả giữ đúng thứ tự đầu vào
func (as *AddressService) processBatchJob(jobID string, addresses []string, options requests.ParseOptions) {
	started := time.Now().UTC()
	as.mu.Lock()
	job := as.jobs[jobID]
	job.Status = models.JobStatusRunning
	job.StartedAt = &started
	as.mu.Unlock()

	ctx := context.Background()
	results := make([]*models.AddressResult, len(addresses))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < as.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				result, _, err := as.ParseAddress(ctx, addresses[i], options)
				if err != nil {
					result = &models.AddressResult{
						Raw:        addresses[i],
						Parsed:     resolver.ParsedAddress{SubSubdivision: []string{}},
						Status:     models.StatusEmpty,
						ResolvedAt: time.Now().UTC(),
						Error:      err.Error(),
					}
				}
				results[i] = result

				as.mu.Lock()
				job.Processed++
				as.mu.Unlock()
			}
		}()
	}
	for i := range addresses {
		indices <- i
	}
	close(indices)
	wg.Wait()

	finished := time.Now().UTC()
	as.mu.Lock()
	job.Results = results
	job.Status = models.JobStatusDone
	job.FinishedAt = &finished
	as.mu.Unlock()

	metrics.BatchJobsTotal.WithLabelValues(models.JobStatusDone).Inc()
	as.logger.Info("Batch job completed",
		zap.String("job_id", jobID),
		zap.Int("total_addresses", len(addresses)),
		zap.Duration("elapsed", finished.Sub(started)))
}

// GetJob lấy bản sao trạng thái job
func (as *AddressService) GetJob(jobID string) (models.BatchJob, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	job, exists := as.jobs[jobID]
	if !exists {
		return models.BatchJob{}, ErrJobNotFound
	}
	return *job, nil
}

// GetJobResults lấy kết quả job đã hoàn thành
func (as *AddressService) GetJobResults(jobID string) ([]*models.AddressResult, error) {
	job, err := as.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusDone {
		return nil, ErrJobNotReady
	}
	return job.Results, nil
}

// GetJobResultsStream lấy kết quả job dưới dạng channel để stream.
// Channel đóng khi hết kết quả hoặc ctx bị hủy.
func (as *AddressService) GetJobResultsStream(ctx context.Context, jobID string) (<-chan *models.AddressResult, error) {
	results, err := as.GetJobResults(jobID)
	if err != nil {
		return nil, err
	}

	resultChannel := make(chan *models.AddressResult, 100)
	go func() {
		defer close(resultChannel)
		for _, result := range results {
			select {
			case resultChannel <- result:
			case <-ctx.Done():
				return
			}
		}
	}()
	return resultChannel, nil
}

// GetStartTime lấy thời gian khởi động service
func (as *AddressService) GetStartTime() time.Time {
	return as.startTime
}

// GetStats lấy thống kê service
func (as *AddressService) GetStats() ServiceStats {
	as.mu.RLock()
	active := 0
	for _, job := range as.jobs {
		if job.Status == models.JobStatusPending || job.Status == models.JobStatusRunning {
			active++
		}
	}
	as.mu.RUnlock()

	stats := ServiceStats{
		TotalProcessed: as.processed.Load(),
		ForcedTotal:    as.forced.Load(),
		ActiveJobs:     active,
		UptimeSeconds:  int64(time.Since(as.startTime).Seconds()),
	}
	if stats.TotalProcessed > 0 {
		stats.AvgProcessingMs = float64(as.totalNanos.Load()) / float64(stats.TotalProcessed) / float64(time.Millisecond)
	}
	return stats
}
