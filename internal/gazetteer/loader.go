package gazetteer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

var (
	// ErrMissingReferenceData file dữ liệu tham chiếu không tồn tại
	ErrMissingReferenceData = errors.New("missing reference data")
	// ErrMalformedReferenceData file dữ liệu tham chiếu không parse được
	ErrMalformedReferenceData = errors.New("malformed reference data")
)

// rawRecord cấu trúc thô trong file JSON / collection Mongo.
// Tree cũ dùng "district", tree mới dùng "ward".
type rawRecord struct {
	Province string `json:"province" bson:"province"`
	District string `json:"district,omitempty" bson:"district,omitempty"`
	Ward     string `json:"ward,omitempty" bson:"ward,omitempty"`
}

func (r rawRecord) toRecord(scheme Scheme) Record {
	sub := r.District
	if scheme == SchemeCurrent {
		sub = r.Ward
	}
	return Record{Province: r.Province, Subunit: sub}
}

func convert(raws []rawRecord, scheme Scheme) []Record {
	records := make([]Record, 0, len(raws))
	for _, r := range raws {
		rec := r.toRecord(scheme)
		if rec.Province == "" || rec.Subunit == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ReadRecords đọc file JSON dạng [{"province": ..., "district"|"ward": ...}]
func ReadRecords(path string, scheme Scheme) ([]Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingReferenceData, path)
		}
		return nil, fmt.Errorf("đọc %s: %w", path, err)
	}

	var raws []rawRecord
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedReferenceData, path, err)
	}
	return convert(raws, scheme), nil
}

// LoadOrEmpty đọc file, lỗi thì log warning và trả về tập rỗng
func LoadOrEmpty(path string, scheme Scheme, logger *zap.Logger) []Record {
	if logger == nil {
		logger = zap.NewNop()
	}
	records, err := ReadRecords(path, scheme)
	if err != nil {
		logger.Warn("Không nạp được dữ liệu gazetteer, dùng index rỗng",
			zap.String("path", path),
			zap.String("scheme", string(scheme)),
			zap.Error(err))
		return []Record{}
	}
	logger.Info("Đã nạp dữ liệu gazetteer",
		zap.String("path", path),
		zap.String("scheme", string(scheme)),
		zap.Int("records", len(records)))
	return records
}
