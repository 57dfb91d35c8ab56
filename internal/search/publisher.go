// Package search đẩy gazetteer lên Meilisearch để tra cứu đơn vị hành chính
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/normalizer"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

// ErrNotConfigured chưa cấu hình Meilisearch host
var ErrNotConfigured = errors.New("meilisearch chưa được cấu hình")

// namespace cố định để id document ổn định giữa các lần publish
var documentNamespace = uuid.MustParse("6f1c52a4-3c1e-4d55-9b0e-2f8f0c6d1a77")

const defaultBatchSize = 1000

// Config cấu hình kết nối Meilisearch
type Config struct {
	Host      string
	APIKey    string
	IndexName string
	BatchSize int
}

// Document một đơn vị hành chính trong index tìm kiếm
type Document struct {
	ID               string         `json:"id"`
	Tier             gazetteer.Tier `json:"tier"`
	Scheme           string         `json:"scheme,omitempty"`
	Name             string         `json:"name"`
	Accented         string         `json:"accented"`
	Unaccented       string         `json:"unaccented"`
	Province         string         `json:"province,omitempty"`
	Aliases          []string       `json:"aliases,omitempty"`
	GazetteerVersion string         `json:"gazetteer_version"`
}

// PublishReport kết quả một lần publish
type PublishReport struct {
	Index     string  `json:"index"`
	Documents int     `json:"documents"`
	Batches   int     `json:"batches"`
	TaskUIDs  []int64 `json:"task_uids"`
}

// Publisher đẩy documents lên Meilisearch
type Publisher struct {
	client    meilisearch.ServiceManager
	logger    *zap.Logger
	indexName string
	batchSize int
}

// NewPublisher tạo Publisher và kiểm tra kết nối
func NewPublisher(cfg Config, logger *zap.Logger) (*Publisher, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "admin_units"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("không thể kết nối Meilisearch: %w", err)
	}

	return &Publisher{
		client:    client,
		logger:    logger,
		indexName: cfg.IndexName,
		batchSize: cfg.BatchSize,
	}, nil
}

// BuildDocuments chuyển index thành documents: tỉnh (kèm alias),
// quận/huyện theo scheme cũ, phường/xã theo scheme mới
func BuildDocuments(idx *gazetteer.Index) []Document {
	version := idx.Version()

	aliases := make(map[string][]string)
	for _, c := range idx.AliasPool() {
		province := normalizer.Canonicalize(c.Canonical)
		aliases[province] = append(aliases[province], c.Key)
	}

	var docs []Document
	for _, p := range idx.Provinces() {
		docs = append(docs, newDocument(p, version, aliases[p.Accented]))
	}
	for _, scheme := range []gazetteer.Scheme{gazetteer.SchemeLegacy, gazetteer.SchemeCurrent} {
		provinces := idx.LegacyProvinces()
		if scheme == gazetteer.SchemeCurrent {
			provinces = idx.CurrentProvinces()
		}
		for _, province := range provinces {
			for _, u := range idx.Units(scheme, province) {
				docs = append(docs, newDocument(u, version, nil))
			}
		}
	}
	return docs
}

func newDocument(u gazetteer.AdministrativeUnit, version string, aliases []string) Document {
	key := string(u.Tier) + "|" + string(u.Scheme) + "|" + u.Province + "|" + u.Accented
	sort.Strings(aliases)
	return Document{
		ID:               uuid.NewSHA1(documentNamespace, []byte(key)).String(),
		Tier:             u.Tier,
		Scheme:           string(u.Scheme),
		Name:             u.Name,
		Accented:         u.Accented,
		Unaccented:       u.Unaccented,
		Province:         u.Province,
		Aliases:          aliases,
		GazetteerVersion: version,
	}
}

// Publish cấu hình index rồi thêm documents theo batch
func (p *Publisher) Publish(ctx context.Context, idx *gazetteer.Index) (*PublishReport, error) {
	docs := BuildDocuments(idx)
	if len(docs) == 0 {
		return nil, errors.New("gazetteer rỗng, không có gì để publish")
	}

	if err := p.configure(); err != nil {
		return nil, err
	}

	index := p.client.Index(p.indexName)
	report := &PublishReport{Index: p.indexName, Documents: len(docs)}
	for i := 0; i < len(docs); i += p.batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		end := i + p.batchSize
		if end > len(docs) {
			end = len(docs)
		}

		task, err := index.AddDocuments(docs[i:end], "id")
		if err != nil {
			return report, fmt.Errorf("lỗi thêm documents batch %d-%d: %w", i, end, err)
		}
		report.Batches++
		report.TaskUIDs = append(report.TaskUIDs, task.TaskUID)

		p.logger.Info("Published document batch",
			zap.String("index", p.indexName),
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}

	p.logger.Info("Published gazetteer",
		zap.String("index", p.indexName),
		zap.String("version", idx.Version()),
		zap.Int("documents", len(docs)))
	return report, nil
}

func (p *Publisher) configure() error {
	task, err := p.client.Index(p.indexName).UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"name", "accented", "unaccented", "aliases"},
		FilterableAttributes: []string{"tier", "scheme", "province", "gazetteer_version"},
		SortableAttributes:   []string{"tier", "accented"},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "sort", "exactness"},
		Synonyms: map[string][]string{
			"tp":  {"thanh pho", "thành phố"},
			"hcm": {"ho chi minh", "hồ chí minh"},
			"q":   {"quan", "quận"},
			"p":   {"phuong", "phường"},
		},
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  3,
				TwoTypos: 7,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("lỗi cấu hình index: %w", err)
	}
	p.logger.Info("Configured Meilisearch index", zap.String("index", p.indexName), zap.Int64("task_uid", task.TaskUID))
	return nil
}

// Lookup tìm đơn vị hành chính theo tên, có thể lọc theo cấp và tỉnh
func (p *Publisher) Lookup(query string, tier gazetteer.Tier, province string, limit int64) ([]Document, error) {
	req := &meilisearch.SearchRequest{Limit: limit}
	if f := Filter(tier, province); f != "" {
		req.Filter = f
	}

	result, err := p.client.Index(p.indexName).Search(query, req)
	if err != nil {
		return nil, fmt.Errorf("lỗi tìm kiếm Meilisearch: %w", err)
	}
	return parseHits(result.Hits), nil
}

// Filter biểu thức filter theo cấp và tỉnh
func Filter(tier gazetteer.Tier, province string) string {
	switch {
	case tier != "" && province != "":
		return fmt.Sprintf("tier = %q AND province = %q", tier, normalizer.Canonicalize(province))
	case tier != "":
		return fmt.Sprintf("tier = %q", tier)
	case province != "":
		return fmt.Sprintf("province = %q", normalizer.Canonicalize(province))
	default:
		return ""
	}
}

func parseHits(hits []interface{}) []Document {
	docs := make([]Document, 0, len(hits))
	for _, hit := range hits {
		m, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		doc := Document{
			ID:               str(m["id"]),
			Tier:             gazetteer.Tier(str(m["tier"])),
			Scheme:           str(m["scheme"]),
			Name:             str(m["name"]),
			Accented:         str(m["accented"]),
			Unaccented:       str(m["unaccented"]),
			Province:         str(m["province"]),
			GazetteerVersion: str(m["gazetteer_version"]),
		}
		if raw, ok := m["aliases"].([]interface{}); ok {
			for _, a := range raw {
				if s, ok := a.(string); ok {
					doc.Aliases = append(doc.Aliases, s)
				}
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
