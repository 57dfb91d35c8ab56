package matcher

import (
	"github.com/address-resolver/internal/normalizer"
)

// MatchStrategy tên của một tầng trong cascade
type MatchStrategy string

const (
	MatchStrategyAlias      MatchStrategy = "alias"
	MatchStrategyAccented   MatchStrategy = "accented"
	MatchStrategyUnaccented MatchStrategy = "unaccented"
)

// Form chọn dạng của fragment đưa vào so khớp
type Form int

const (
	FormAccented Form = iota
	FormUnaccented
)

// Fragment một đoạn địa chỉ ở cả hai dạng
type Fragment struct {
	Accented   string
	Unaccented string
}

// NewFragment tạo Fragment từ text thô, cả hai dạng đã qua Process
func NewFragment(text string) Fragment {
	accented, unaccented := normalizer.Forms(text)
	return Fragment{Accented: Process(accented), Unaccented: Process(unaccented)}
}

func (f Fragment) in(form Form) string {
	if form == FormUnaccented {
		return f.Unaccented
	}
	return f.Accented
}

// Match kết quả của một strategy
type Match struct {
	Scored
	Stage MatchStrategy
}

// Strategy một tầng so khớp; không tìm thấy thì trả về ok=false
type Strategy interface {
	Name() MatchStrategy
	Match(f Fragment) (Match, bool)
}

// PoolStrategy so khớp fragment (ở một dạng cố định) với một pool
type PoolStrategy struct {
	name      MatchStrategy
	pool      Pool
	form      Form
	threshold int
}

// NewPoolStrategy tạo strategy trên pool
func NewPoolStrategy(name MatchStrategy, pool Pool, form Form, threshold int) *PoolStrategy {
	return &PoolStrategy{name: name, pool: pool, form: form, threshold: threshold}
}

func (s *PoolStrategy) Name() MatchStrategy { return s.name }

func (s *PoolStrategy) Match(f Fragment) (Match, bool) {
	best, ok := ExtractOne(f.in(s.form), s.pool, s.threshold)
	if !ok {
		return Match{}, false
	}
	return Match{Scored: best, Stage: s.name}, true
}

// Cascade chuỗi strategy, tầng đầu tiên thành công thắng
type Cascade []Strategy

// Match chạy lần lượt các tầng
func (c Cascade) Match(f Fragment) (Match, bool) {
	for _, s := range c {
		if m, ok := s.Match(f); ok {
			return m, true
		}
	}
	return Match{}, false
}

// Only giữ lại các tầng có tên nằm trong names
func (c Cascade) Only(names ...MatchStrategy) Cascade {
	var out Cascade
	for _, s := range c {
		for _, n := range names {
			if s.Name() == n {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Thresholds ngưỡng điểm cho từng loại so khớp
type Thresholds struct {
	Province int
	Alias    int
	District int
	Ward     int
	Scope    int
}

// DefaultThresholds ngưỡng mặc định
func DefaultThresholds() Thresholds {
	return Thresholds{
		Province: 80,
		Alias:    80,
		District: 85,
		Ward:     85,
		Scope:    80,
	}
}

// ProvinceCascade alias -> pool có dấu -> pool không dấu
func ProvinceCascade(aliases, provinces Pool, th Thresholds) Cascade {
	return Cascade{
		NewPoolStrategy(MatchStrategyAlias, aliases, FormUnaccented, th.Alias),
		NewPoolStrategy(MatchStrategyAccented, provinces, FormAccented, th.Province),
		NewPoolStrategy(MatchStrategyUnaccented, provinces, FormUnaccented, th.Province),
	}
}

// SubunitCascade có dấu -> không dấu trên pool đã thu hẹp theo tỉnh
func SubunitCascade(pool Pool, threshold int) Cascade {
	return Cascade{
		NewPoolStrategy(MatchStrategyAccented, pool, FormAccented, threshold),
		NewPoolStrategy(MatchStrategyUnaccented, pool, FormUnaccented, threshold),
	}
}
