package gazetteer

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/address-resolver/internal/matcher"
	"github.com/address-resolver/internal/normalizer"
)

// Scheme bộ dữ liệu hành chính
type Scheme string

const (
	// SchemeLegacy tỉnh -> quận/huyện (trước sáp nhập)
	SchemeLegacy Scheme = "legacy"
	// SchemeCurrent tỉnh -> phường/xã (sau sáp nhập)
	SchemeCurrent Scheme = "current"
)

// Tier cấp hành chính
type Tier string

const (
	TierProvince Tier = "province"
	TierDistrict Tier = "district"
	TierWard     Tier = "ward"
)

// Record một dòng dữ liệu tham chiếu
type Record struct {
	Province string `json:"province" bson:"province"`
	Subunit  string `json:"subunit" bson:"subunit"`
}

// AdministrativeUnit một đơn vị hành chính kèm các dạng chuẩn hóa
type AdministrativeUnit struct {
	Tier       Tier   `json:"tier"`
	Scheme     Scheme `json:"scheme,omitempty"`
	Name       string `json:"name"`
	Accented   string `json:"accented"`
	Unaccented string `json:"unaccented"`
	Province   string `json:"province,omitempty"`
}

// Stats thống kê index
type Stats struct {
	Version          string `json:"version"`
	Provinces        int    `json:"provinces"`
	LegacyProvinces  int    `json:"legacy_provinces"`
	CurrentProvinces int    `json:"current_provinces"`
	Districts        int    `json:"districts"`
	Wards            int    `json:"wards"`
	Aliases          int    `json:"aliases"`
}

// tree tỉnh (đã canonicalize) -> danh sách đơn vị con
type tree struct {
	keys     []string
	children map[string][]string
	units    map[string][]AdministrativeUnit
	pools    map[string]matcher.Pool
}

// Index gazetteer bất biến, dựng một lần lúc khởi động rồi chỉ đọc
type Index struct {
	legacy    tree
	current   tree
	provinces []AdministrativeUnit

	provincePool   matcher.Pool
	aliasPool      matcher.Pool
	legacyKeyPool  matcher.Pool
	currentKeyPool matcher.Pool

	version string
}

// Build dựng Index từ hai bộ record và bảng alias (alias -> tên chuẩn)
func Build(legacy, current []Record, aliases map[string]string) *Index {
	idx := &Index{
		legacy:  buildTree(legacy, SchemeLegacy),
		current: buildTree(current, SchemeCurrent),
	}

	seen := make(map[string]bool)
	for _, t := range []tree{idx.legacy, idx.current} {
		for _, key := range t.keys {
			if seen[key] {
				continue
			}
			seen[key] = true
			idx.provinces = append(idx.provinces, newUnit(TierProvince, "", key, ""))
		}
	}
	sort.Slice(idx.provinces, func(i, j int) bool { return idx.provinces[i].Accented < idx.provinces[j].Accented })

	idx.provincePool = unitPool(idx.provinces)
	idx.legacyKeyPool = keyPool(idx.legacy.keys)
	idx.currentKeyPool = keyPool(idx.current.keys)

	normalized := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		normalized[normalizer.StripDiacritics(alias)] = canonical
	}
	aliasKeys := make([]string, 0, len(normalized))
	for alias := range normalized {
		aliasKeys = append(aliasKeys, alias)
	}
	sort.Strings(aliasKeys)
	for _, alias := range aliasKeys {
		idx.aliasPool = append(idx.aliasPool, matcher.Candidate{Key: alias, Canonical: normalized[alias]})
	}

	idx.version = fingerprint(legacy, current, aliasKeys, normalized)
	return idx
}

func buildTree(records []Record, scheme Scheme) tree {
	tier := TierDistrict
	if scheme == SchemeCurrent {
		tier = TierWard
	}

	t := tree{
		children: make(map[string][]string),
		units:    make(map[string][]AdministrativeUnit),
	}
	present := make(map[string]map[string]bool)
	for _, rec := range records {
		province := normalizer.Canonicalize(rec.Province)
		if province == "" {
			continue
		}
		if _, ok := present[province]; !ok {
			present[province] = make(map[string]bool)
			t.keys = append(t.keys, province)
		}

		accented, unaccented := normalizer.Forms(rec.Subunit)
		if accented == "" || present[province][accented] {
			continue
		}
		present[province][accented] = true
		t.units[province] = append(t.units[province], newUnit(tier, scheme, rec.Subunit, province))
		t.children[province] = append(t.children[province], accented)
		if unaccented != accented && !present[province][unaccented] {
			present[province][unaccented] = true
			t.children[province] = append(t.children[province], unaccented)
		}
	}
	sort.Strings(t.keys)
	t.pools = make(map[string]matcher.Pool, len(t.units))
	for province, units := range t.units {
		t.pools[province] = unitPool(units)
	}
	return t
}

func newUnit(tier Tier, scheme Scheme, name, province string) AdministrativeUnit {
	accented, unaccented := normalizer.Forms(name)
	return AdministrativeUnit{
		Tier:       tier,
		Scheme:     scheme,
		Name:       name,
		Accented:   accented,
		Unaccented: unaccented,
		Province:   province,
	}
}

// unitPool pool gồm dạng có dấu và không dấu, cùng trỏ về tên có dấu
func unitPool(units []AdministrativeUnit) matcher.Pool {
	pool := make(matcher.Pool, 0, 2*len(units))
	for _, u := range units {
		pool = append(pool, matcher.Candidate{Key: u.Accented, Canonical: u.Accented})
		if u.Unaccented != u.Accented {
			pool = append(pool, matcher.Candidate{Key: u.Unaccented, Canonical: u.Accented})
		}
	}
	return pool
}

func keyPool(keys []string) matcher.Pool {
	units := make([]AdministrativeUnit, 0, len(keys))
	for _, k := range keys {
		units = append(units, newUnit(TierProvince, "", k, ""))
	}
	return unitPool(units)
}

func fingerprint(legacy, current []Record, aliasKeys []string, aliases map[string]string) string {
	h := sha256.New()
	for _, recs := range [][]Record{legacy, current} {
		for _, r := range recs {
			h.Write([]byte(r.Province))
			h.Write([]byte{0})
			h.Write([]byte(r.Subunit))
			h.Write([]byte{1})
		}
		h.Write([]byte{2})
	}
	for _, k := range aliasKeys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(aliases[k]))
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Version fingerprint ổn định của dữ liệu đã nạp
func (idx *Index) Version() string { return idx.version }

// Empty true khi cả hai tree đều rỗng
func (idx *Index) Empty() bool {
	return len(idx.legacy.keys) == 0 && len(idx.current.keys) == 0
}

// Provinces danh sách tỉnh (hợp của hai tree)
func (idx *Index) Provinces() []AdministrativeUnit {
	return append([]AdministrativeUnit(nil), idx.provinces...)
}

// LegacyProvinces các key tỉnh của tree cũ
func (idx *Index) LegacyProvinces() []string { return append([]string(nil), idx.legacy.keys...) }

// CurrentProvinces các key tỉnh của tree mới
func (idx *Index) CurrentProvinces() []string { return append([]string(nil), idx.current.keys...) }

// Districts quận/huyện (cả hai dạng) của một tỉnh theo key
func (idx *Index) Districts(province string) []string {
	return append([]string(nil), idx.legacy.children[normalizer.Canonicalize(province)]...)
}

// Wards phường/xã (cả hai dạng) của một tỉnh theo key
func (idx *Index) Wards(province string) []string {
	return append([]string(nil), idx.current.children[normalizer.Canonicalize(province)]...)
}

func (idx *Index) schemeTree(scheme Scheme) tree {
	if scheme == SchemeCurrent {
		return idx.current
	}
	return idx.legacy
}

// Units các đơn vị con của một tỉnh trong một scheme
func (idx *Index) Units(scheme Scheme, province string) []AdministrativeUnit {
	return append([]AdministrativeUnit(nil), idx.schemeTree(scheme).units[normalizer.Canonicalize(province)]...)
}

// SubunitPool pool đơn vị con (có dấu + không dấu) của một tỉnh
func (idx *Index) SubunitPool(scheme Scheme, province string) matcher.Pool {
	return idx.schemeTree(scheme).pools[normalizer.Canonicalize(province)]
}

// ProvincePool pool tỉnh gộp có dấu + không dấu.
// Các pool trả về dùng chung bộ nhớ với Index, không được sửa.
func (idx *Index) ProvincePool() matcher.Pool { return idx.provincePool }

// AliasPool pool alias không dấu -> tên tỉnh chuẩn
func (idx *Index) AliasPool() matcher.Pool { return idx.aliasPool }

// LegacyKeyPool pool key tỉnh của tree cũ
func (idx *Index) LegacyKeyPool() matcher.Pool { return idx.legacyKeyPool }

// CurrentKeyPool pool key tỉnh của tree mới
func (idx *Index) CurrentKeyPool() matcher.Pool { return idx.currentKeyPool }

// Stats thống kê index
func (idx *Index) Stats() Stats {
	s := Stats{
		Version:          idx.version,
		Provinces:        len(idx.provinces),
		LegacyProvinces:  len(idx.legacy.keys),
		CurrentProvinces: len(idx.current.keys),
		Aliases:          len(idx.aliasPool),
	}
	for _, units := range idx.legacy.units {
		s.Districts += len(units)
	}
	for _, units := range idx.current.units {
		s.Wards += len(units)
	}
	return s
}
