package resolver

import (
	"github.com/address-resolver/internal/classifier"
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/matcher"
)

// state trạng thái của một lần resolve, không chia sẻ giữa các lời gọi
type state struct {
	segments []string
	markers  []classifier.Markers
	visited  []bool

	provinceIdx int
	// tỉnh được xác định bởi classifier hoặc fuzzy (không phải suy từ láng giềng)
	provinceHit bool
	last        gazetteer.Tier
	pass        int

	result ParsedAddress
	trace  []Step
}

func newState(segments []string) *state {
	st := &state{
		segments:    segments,
		markers:     make([]classifier.Markers, len(segments)),
		visited:     make([]bool, len(segments)),
		provinceIdx: -1,
	}
	for i, seg := range segments {
		st.markers[i] = classifier.Classify(seg)
	}
	return st
}

func (st *state) open(i int) bool {
	return i >= 0 && i < len(st.segments) && !st.visited[i] && i != st.provinceIdx
}

func (st *state) hasSubSubdivision() bool { return len(st.result.SubSubdivision) > 0 }

// wardMarkedAfter true nếu còn đoạn chưa duyệt mang marker phường sau vị trí i
func (st *state) wardMarkedAfter(i int) bool {
	for j := i + 1; j < len(st.segments); j++ {
		if !st.visited[j] && st.markers[j].Ward {
			return true
		}
	}
	return false
}

func (st *state) record(i int, tier gazetteer.Tier, method Method, m *matcher.Match) {
	step := Step{
		Pass:    st.pass,
		Index:   i,
		Segment: st.segments[i],
		Tier:    tier,
		Method:  method,
	}
	if m != nil {
		step.Stage = string(m.Stage)
		step.Candidate = m.Canonical
		step.Score = m.Score
	}
	st.trace = append(st.trace, step)
	st.visited[i] = true
	st.last = tier
}

func (st *state) setProvince(i int, value string, method Method, m *matcher.Match) {
	st.result.Province = value
	st.provinceIdx = i
	st.provinceHit = method == MethodClassifier || method == MethodFuzzy
	st.record(i, gazetteer.TierProvince, method, m)
}

func (st *state) setSubdivision(i int, method Method, m *matcher.Match) {
	st.result.Subdivision = st.segments[i]
	st.record(i, gazetteer.TierDistrict, method, m)
}

func (st *state) setSubSubdivision(i int, method Method, m *matcher.Match) {
	st.result.SubSubdivision = []string{st.segments[i]}
	st.record(i, gazetteer.TierWard, method, m)
}
