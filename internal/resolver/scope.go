package resolver

import (
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/matcher"
	"github.com/address-resolver/internal/normalizer"
)

// scopeFor pool quận/huyện và phường/xã của các tỉnh gần giống province nhất.
// Kết quả được nhớ theo tên tỉnh đã chuẩn hóa.
func (r *Resolver) scopeFor(province string) scope {
	key := normalizer.Canonicalize(province)
	if r.scopes != nil {
		if sc, ok := r.scopes.Get(key); ok {
			return sc
		}
	}

	sc := scope{
		districts: r.narrow(gazetteer.SchemeLegacy, r.index.LegacyKeyPool(), key),
		wards:     r.narrow(gazetteer.SchemeCurrent, r.index.CurrentKeyPool(), key),
	}
	if r.scopes != nil {
		r.scopes.Add(key, sc)
	}
	return sc
}

// narrow lấy tối đa scopeLimit tỉnh khớp province (dạng có dấu trước,
// không dấu sau) rồi gộp pool đơn vị con của chúng
func (r *Resolver) narrow(scheme gazetteer.Scheme, keys matcher.Pool, province string) matcher.Pool {
	accented, unaccented := normalizer.Forms(province)

	seen := make(map[string]bool)
	var provinces []string
	for _, q := range []string{accented, unaccented} {
		for _, m := range matcher.ExtractTop(q, keys, r.thresholds.Scope, 2*r.scopeLimit) {
			if len(provinces) == r.scopeLimit {
				break
			}
			if seen[m.Canonical] {
				continue
			}
			seen[m.Canonical] = true
			provinces = append(provinces, m.Canonical)
		}
	}

	var pool matcher.Pool
	for _, p := range provinces {
		pool = append(pool, r.index.SubunitPool(scheme, p)...)
	}
	return pool
}

// ScopeStats số mục đang được nhớ trong scope cache
func (r *Resolver) ScopeStats() int {
	if r.scopes == nil {
		return 0
	}
	return r.scopes.Len()
}

// PurgeScopes xóa scope cache
func (r *Resolver) PurgeScopes() {
	if r.scopes != nil {
		r.scopes.Purge()
	}
}
