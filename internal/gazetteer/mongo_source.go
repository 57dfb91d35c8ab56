package gazetteer

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Tên collection mặc định cho từng scheme
const (
	LegacyCollection  = "legacy_units"
	CurrentCollection = "current_units"
)

// MongoSource đọc record gazetteer từ MongoDB
type MongoSource struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoSource tạo mới MongoSource
func NewMongoSource(db *mongo.Database, logger *zap.Logger) *MongoSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoSource{db: db, logger: logger}
}

// CollectionFor tên collection theo scheme
func CollectionFor(scheme Scheme) string {
	if scheme == SchemeCurrent {
		return CurrentCollection
	}
	return LegacyCollection
}

// Records đọc toàn bộ record của một scheme
func (ms *MongoSource) Records(ctx context.Context, scheme Scheme) ([]Record, error) {
	coll := ms.db.Collection(CollectionFor(scheme))

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: find %s: %v", ErrMissingReferenceData, coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var raws []rawRecord
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMalformedReferenceData, coll.Name(), err)
	}
	return convert(raws, scheme), nil
}

// LoadOrEmpty giống hàm cùng tên cho file: lỗi thì log và trả về rỗng
func (ms *MongoSource) LoadOrEmpty(ctx context.Context, scheme Scheme) []Record {
	records, err := ms.Records(ctx, scheme)
	if err != nil {
		ms.logger.Warn("Không nạp được gazetteer từ MongoDB, dùng index rỗng",
			zap.String("collection", CollectionFor(scheme)),
			zap.Error(err))
		return []Record{}
	}
	ms.logger.Info("Đã nạp gazetteer từ MongoDB",
		zap.String("collection", CollectionFor(scheme)),
		zap.Int("records", len(records)))
	return records
}
