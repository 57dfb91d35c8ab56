package models

import "time"

// JobStatus constants
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// BatchJob một job resolve hàng loạt; Results giữ đúng thứ tự đầu vào
type BatchJob struct {
	ID         string           `json:"id"`
	Status     string           `json:"status"`
	Total      int              `json:"total"`
	Processed  int              `json:"processed"`
	Results    []*AddressResult `json:"-"`
	CreatedAt  time.Time        `json:"created_at"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Progress tỉ lệ hoàn thành [0,1]
func (j *BatchJob) Progress() float64 {
	if j.Total == 0 {
		return 1
	}
	return float64(j.Processed) / float64(j.Total)
}
