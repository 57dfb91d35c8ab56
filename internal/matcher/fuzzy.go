package matcher

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// PartialRatio điểm tương đồng [0,100] giữa chuỗi ngắn hơn và cửa sổ
// cùng độ dài tốt nhất trên chuỗi dài hơn. Làm việc trên rune.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	short := string(ra)
	best := 0
	for i := 0; i+len(ra) <= len(rb); i++ {
		score := ratio(short, string(rb[i:i+len(ra)]), len(ra))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// ratio với hai chuỗi có cùng số rune n
func ratio(a, b string, n int) int {
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(n))))
}

// Process đưa chuỗi về dạng so khớp: ký tự không phải chữ hoặc số thành
// khoảng trắng, chữ thường, gộp khoảng trắng. Chuỗi chỉ có dấu câu thành rỗng.
func Process(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// Candidate một mục trong pool: Key là dạng dùng để so khớp,
// Canonical là tên hiển thị trả về
type Candidate struct {
	Key       string
	Canonical string
}

// Pool danh sách ứng viên có thứ tự
type Pool []Candidate

// Scored ứng viên kèm điểm
type Scored struct {
	Candidate
	Score int
	// tie-break phụ, chỉ dùng khi Score bằng nhau
	similarity float64
}

// better quyết định thứ tự giữa hai ứng viên cùng query một cách xác định
func better(x, y Scored) bool {
	if x.Score != y.Score {
		return x.Score > y.Score
	}
	if x.similarity != y.similarity {
		return x.similarity > y.similarity
	}
	if x.Canonical != y.Canonical {
		return x.Canonical < y.Canonical
	}
	return x.Key < y.Key
}

// score trả về false khi ứng viên không đạt cutoff; query đã qua Process
func score(query string, c Candidate, cutoff int) (Scored, bool) {
	key := Process(c.Key)
	s := PartialRatio(query, key)
	if s < cutoff {
		return Scored{}, false
	}
	return Scored{
		Candidate:  c,
		Score:      s,
		similarity: smetrics.JaroWinkler(query, key, 0.7, 4),
	}, true
}

// ExtractOne trả về ứng viên tốt nhất có điểm >= cutoff.
// Query rỗng sau Process không khớp gì.
func ExtractOne(query string, pool Pool, cutoff int) (Scored, bool) {
	var best Scored
	found := false
	query = Process(query)
	if query == "" {
		return best, false
	}
	for _, c := range pool {
		s, ok := score(query, c, cutoff)
		if !ok {
			continue
		}
		if !found || better(s, best) {
			best = s
			found = true
		}
	}
	return best, found
}

// ExtractTop trả về tối đa limit ứng viên có điểm >= cutoff,
// sắp xếp giảm dần theo điểm
func ExtractTop(query string, pool Pool, cutoff, limit int) []Scored {
	query = Process(query)
	if query == "" || limit <= 0 {
		return nil
	}
	var out []Scored
	for _, c := range pool {
		if s, ok := score(query, c, cutoff); ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return better(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
