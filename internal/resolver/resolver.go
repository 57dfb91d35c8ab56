package resolver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/matcher"
	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/segmenter"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// ErrEmptyAddress địa chỉ rỗng hoặc chỉ có khoảng trắng
var ErrEmptyAddress = errors.New("địa chỉ không được để trống")

// ParsedAddress kết quả resolve; mọi trường đã lowercase, giữ dấu
type ParsedAddress struct {
	Province       string   `json:"province"`
	Subdivision    string   `json:"subdivision"`
	SubSubdivision []string `json:"sub_subdivision"`
}

// Method cách một đoạn được gán vào cấp hành chính
type Method string

const (
	MethodClassifier Method = "classifier"
	MethodFuzzy      Method = "fuzzy"
	MethodNeighbour  Method = "neighbour"
	MethodFallback   Method = "fallback"
	MethodForced     Method = "forced"
)

// Step một quyết định gán trong quá trình resolve
type Step struct {
	Pass      int            `json:"pass"`
	Index     int            `json:"index"`
	Segment   string         `json:"segment"`
	Tier      gazetteer.Tier `json:"tier"`
	Method    Method         `json:"method"`
	Stage     string         `json:"stage,omitempty"`
	Candidate string         `json:"candidate,omitempty"`
	Score     int            `json:"score,omitempty"`
}

// Resolution kết quả kèm các đoạn và trace để debug
type Resolution struct {
	Parsed   ParsedAddress `json:"parsed"`
	Segments []string      `json:"segments"`
	Forced   bool          `json:"forced"`
	Trace    []Step        `json:"trace"`
}

// Observer nhận kết quả mỗi lần resolve (metrics, audit...)
type Observer interface {
	ObserveResolution(res Resolution, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveResolution(Resolution, time.Duration) {}

// scope pool quận/huyện và phường/xã đã thu hẹp theo tỉnh
type scope struct {
	districts matcher.Pool
	wards     matcher.Pool
}

// Resolver context bất biến: index, segmenter, ngưỡng và policy.
// An toàn khi gọi đồng thời.
type Resolver struct {
	index     *gazetteer.Index
	segmenter *segmenter.Segmenter

	thresholds matcher.Thresholds
	scopeLimit int
	fallback   FallbackPolicy
	cacheSize  int

	provinceCascade matcher.Cascade
	aliasCascade    matcher.Cascade
	scopes          *lru.Cache[string, scope]

	logger   *zap.Logger
	observer Observer
}

// Option cấu hình Resolver
type Option func(*Resolver)

// WithThresholds đặt ngưỡng điểm fuzzy
func WithThresholds(th matcher.Thresholds) Option {
	return func(r *Resolver) { r.thresholds = th }
}

// WithScopeLimit số tỉnh tối đa dùng để thu hẹp pool ở pass 3
func WithScopeLimit(n int) Option {
	return func(r *Resolver) { r.scopeLimit = n }
}

// WithFallbackPolicy thay policy gán phường/xã khi không khớp
func WithFallbackPolicy(p FallbackPolicy) Option {
	return func(r *Resolver) { r.fallback = p }
}

// WithScopeCacheSize kích thước LRU cache pool theo tỉnh; 0 để tắt
func WithScopeCacheSize(n int) Option {
	return func(r *Resolver) { r.cacheSize = n }
}

// WithSegmenter dùng segmenter tùy chỉnh
func WithSegmenter(s *segmenter.Segmenter) Option {
	return func(r *Resolver) { r.segmenter = s }
}

// WithLogger gắn logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithObserver gắn observer
func WithObserver(o Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// New tạo Resolver trên một index đã dựng sẵn
func New(index *gazetteer.Index, opts ...Option) (*Resolver, error) {
	if index == nil {
		return nil, errors.New("gazetteer index không được nil")
	}

	r := &Resolver{
		index:      index,
		thresholds: matcher.DefaultThresholds(),
		scopeLimit: 5,
		fallback:   FallbackAfterSubdivision,
		cacheSize:  256,
		logger:     zap.NewNop(),
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.segmenter == nil {
		rules, err := normalizer.LoadRules()
		if err != nil {
			return nil, fmt.Errorf("không load được rules: %w", err)
		}
		r.segmenter = segmenter.New(rules)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.observer == nil {
		r.observer = nopObserver{}
	}
	if r.scopeLimit <= 0 {
		r.scopeLimit = 5
	}
	if r.cacheSize > 0 {
		cache, err := lru.New[string, scope](r.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("không thể tạo scope cache: %w", err)
		}
		r.scopes = cache
	}

	r.provinceCascade = matcher.ProvinceCascade(index.AliasPool(), index.ProvincePool(), r.thresholds)
	r.aliasCascade = r.provinceCascade.Only(matcher.MatchStrategyAlias)
	return r, nil
}

// Index trả về gazetteer đang dùng
func (r *Resolver) Index() *gazetteer.Index { return r.index }

// Resolve tách địa chỉ thành tỉnh / quận-huyện / phường-xã.
// Không bao giờ lỗi: đầu vào rỗng cho kết quả rỗng.
func (r *Resolver) Resolve(address string) ParsedAddress {
	return r.ResolveDetailed(address).Parsed
}

// ResolveStrict như Resolve nhưng trả ErrEmptyAddress cho đầu vào rỗng
func (r *Resolver) ResolveStrict(address string) (ParsedAddress, error) {
	if strings.TrimSpace(address) == "" {
		return emptyResult(), ErrEmptyAddress
	}
	return r.Resolve(address), nil
}

// ResolveDetailed như Resolve nhưng kèm các đoạn và trace
func (r *Resolver) ResolveDetailed(address string) Resolution {
	start := time.Now()

	segments := r.segmenter.Segments(address)
	if len(segments) == 0 {
		// còn ký tự nhưng bị làm sạch hết (vd chỉ có "Việt Nam"):
		// giữ nguyên cả chuỗi làm một đoạn để forced mode vẫn có tỉnh
		if whole := normalizer.Canonicalize(address); whole != "" {
			segments = []string{whole}
		}
	}

	res := Resolution{Segments: segments, Parsed: emptyResult()}
	if len(segments) > 0 {
		st := r.run(segments, false)
		if st.result.Province == "" {
			st = r.run(segments, true)
			res.Forced = true
		}
		res.Parsed = finalize(st.result)
		res.Trace = st.trace
	}

	elapsed := time.Since(start)
	r.logger.Debug("Resolved address",
		zap.String("address", address),
		zap.Strings("segments", segments),
		zap.String("province", res.Parsed.Province),
		zap.String("subdivision", res.Parsed.Subdivision),
		zap.Strings("sub_subdivision", res.Parsed.SubSubdivision),
		zap.Bool("forced", res.Forced),
		zap.Duration("elapsed", elapsed))
	r.observer.ObserveResolution(res, elapsed)
	return res
}

// run chạy ba pass theo thứ tự
func (r *Resolver) run(segments []string, forced bool) *state {
	st := newState(segments)
	st.pass = 1
	r.passProvince(st, forced)
	st.pass = 2
	r.passMarkers(st)
	st.pass = 3
	r.passScoped(st)
	return st
}

func emptyResult() ParsedAddress {
	return ParsedAddress{SubSubdivision: []string{}}
}

// finalize chuẩn hóa đầu ra: lowercase, gộp khoảng trắng, giữ dấu
func finalize(p ParsedAddress) ParsedAddress {
	out := ParsedAddress{
		Province:       normalizer.Canonicalize(p.Province),
		Subdivision:    normalizer.Canonicalize(p.Subdivision),
		SubSubdivision: make([]string, 0, len(p.SubSubdivision)),
	}
	for _, s := range p.SubSubdivision {
		out.SubSubdivision = append(out.SubSubdivision, normalizer.Canonicalize(s))
	}
	return out
}
