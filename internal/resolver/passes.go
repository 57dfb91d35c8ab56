package resolver

import (
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/matcher"
)

// passProvince pass 1: đoạn đầu tiên có marker tỉnh hoặc khớp cascade tỉnh.
// Ở forced mode đoạn đầu tiên được nhận luôn.
func (r *Resolver) passProvince(st *state, forced bool) {
	if forced {
		st.setProvince(0, st.segments[0], MethodForced, nil)
		return
	}

	for i, seg := range st.segments {
		mk := st.markers[i]
		if mk.Province {
			st.setProvince(i, seg, MethodClassifier, nil)
			return
		}

		// đoạn mang marker cấp dưới chỉ được coi là tỉnh qua alias
		cascade := r.provinceCascade
		if mk.LowerTier() {
			cascade = r.aliasCascade
		}
		if m, ok := cascade.Match(matcher.NewFragment(seg)); ok {
			st.setProvince(i, m.Canonical, MethodFuzzy, &m)
			return
		}
	}
}

// passMarkers pass 2: gán theo marker phường/xã và quận/huyện tường minh,
// kèm lấp ô trống bằng đoạn kề bên
func (r *Resolver) passMarkers(st *state) {
	for i := range st.segments {
		if !st.open(i) {
			continue
		}
		mk := st.markers[i]

		if mk.Ward && !st.hasSubSubdivision() {
			st.setSubSubdivision(i, MethodClassifier, nil)
			if prev := i - 1; st.open(prev) && st.result.Subdivision == "" && !st.markers[prev].Ward {
				st.setSubdivision(prev, MethodNeighbour, nil)
			}
			continue
		}

		if mk.District && st.result.Subdivision == "" {
			st.setSubdivision(i, MethodClassifier, nil)
			if prev := i - 1; st.result.Province == "" && !st.provinceHit &&
				st.open(prev) && !st.markers[prev].LowerTier() {
				st.setProvince(prev, st.segments[prev], MethodNeighbour, nil)
			}
			if next := i + 1; st.open(next) && !st.hasSubSubdivision() && !st.wardMarkedAfter(i) {
				st.setSubSubdivision(next, MethodNeighbour, nil)
			}
		}
	}
}

// passScoped pass 3: fuzzy phường/xã rồi quận/huyện trên pool đã thu hẹp
// theo tỉnh
func (r *Resolver) passScoped(st *state) {
	if st.result.Province == "" {
		return
	}

	sc := r.scopeFor(st.result.Province)
	wards := matcher.SubunitCascade(sc.wards, r.thresholds.Ward)
	districts := matcher.SubunitCascade(sc.districts, r.thresholds.District)

	for i, seg := range st.segments {
		if !st.open(i) {
			continue
		}
		frag := matcher.NewFragment(seg)

		if !st.hasSubSubdivision() {
			if m, ok := wards.Match(frag); ok {
				st.setSubSubdivision(i, MethodFuzzy, &m)
				continue
			}
			if r.fallback.Applies(st.last) {
				st.setSubSubdivision(i, MethodFallback, nil)
				continue
			}
		}

		// đã có phường/xã thì địa chỉ theo scheme mới, không còn cấp quận
		if st.result.Subdivision == "" && st.last != gazetteer.TierWard && !st.hasSubSubdivision() {
			if m, ok := districts.Match(frag); ok {
				st.setSubdivision(i, MethodFuzzy, &m)
			}
		}
	}
}
