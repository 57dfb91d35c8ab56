package segmenter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/address-resolver/internal/normalizer"
)

var (
	partSeparator = regexp.MustCompile(`\s*[,;]\s*`)
	dotRemover    = strings.NewReplacer(".", "")
)

// Segmenter tách và sửa lỗi chuỗi địa chỉ trước khi resolve
type Segmenter struct {
	dashCases        []normalizer.DashCase
	buildingPrefixes map[string]bool
	countryPattern   *regexp.Regexp
}

// New tạo Segmenter từ bảng quy tắc
func New(rules *normalizer.Rules) *Segmenter {
	s := &Segmenter{
		dashCases:        rules.DashCases,
		buildingPrefixes: make(map[string]bool, len(rules.BuildingPrefixes)),
	}
	for _, p := range rules.BuildingPrefixes {
		s.buildingPrefixes[normalizer.Canonicalize(p)] = true
	}

	if len(rules.CountryTokens) > 0 {
		tokens := make([]string, 0, len(rules.CountryTokens))
		for _, tok := range rules.CountryTokens {
			tokens = append(tokens, regexp.QuoteMeta(normalizer.Canonicalize(tok)))
		}
		// giữ lại ký tự biên (nhóm 1, 2) để không nuốt dấu phẩy
		s.countryPattern = regexp.MustCompile(`(?i)(^|[^\p{L}\p{M}\p{N}_])(?:` +
			strings.Join(tokens, "|") + `)([^\p{L}\p{M}\p{N}_]|$)`)
	}
	return s
}

// Prepare chạy toàn bộ bước làm sạch trước khi tách đoạn
func (s *Segmenter) Prepare(address string) string {
	out := normalizer.Canonicalize(normalizer.FoldPunctuation(address))
	out = s.stripCountry(out)
	out = dotRemover.Replace(out)
	out = RepairDuplicate(out)
	out = RemoveRedundant(out)
	return s.RepairHyphens(out)
}

// Segments Prepare rồi SplitParts
func (s *Segmenter) Segments(address string) []string {
	return SplitParts(s.Prepare(address))
}

func (s *Segmenter) stripCountry(text string) string {
	if s.countryPattern == nil {
		return text
	}
	// chạy lại cho tới khi ổn định vì các match liền kề dùng chung ký tự biên
	for {
		next := s.countryPattern.ReplaceAllString(text, "$1$2")
		if next == text {
			break
		}
		text = next
	}
	return strings.TrimSpace(text)
}

// SplitParts tách theo dấu phẩy/chấm phẩy, bỏ đoạn rỗng và đảo ngược
// thứ tự để cấp rộng nhất (tỉnh) đứng đầu
func SplitParts(address string) []string {
	raw := partSeparator.Split(address, -1)
	parts := make([]string, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(raw[i]); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// RemoveRedundant bỏ các phần rỗng giữa các dấu phẩy
func RemoveRedundant(s string) string {
	raw := strings.Split(s, ",")
	parts := raw[:0]
	for _, p := range raw {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.TrimSpace(strings.Join(parts, ","))
}

// RepairDuplicate cắt bỏ phần đầu bị lặp lại do nhập liệu,
// ví dụ "hà nội, hà nội, ba đình" -> "hà nội, ba đình".
// Đoạn lặp phải bắt đầu ngay sau một dấu phẩy và cách nó dưới 5 ký tự.
func RepairDuplicate(s string) string {
	r := []rune(s)
	for i := len(r) / 2; i >= 0; i-- {
		if i >= len(r) || r[i] != ',' {
			continue
		}
		head, tail := string(r[:i]), string(r[i:])
		pos := strings.Index(tail, head)
		if pos == -1 {
			continue
		}
		idx := utf8.RuneCountInString(tail[:pos])
		if idx < 5 {
			return string(r[i+idx:])
		}
	}
	return s
}

// RepairHyphens đổi dấu gạch ngang thành dấu phẩy, trừ khi nó thuộc tên
// địa danh ghép, nằm giữa hai số hiệu, hoặc đứng trước một mã ngắn
func (s *Segmenter) RepairHyphens(text string) string {
	pieces := strings.Split(text, "-")
	if len(pieces) == 1 {
		return text
	}

	var b strings.Builder
	for i, piece := range pieces {
		b.WriteString(piece)
		if i == len(pieces)-1 {
			break
		}
		if s.keepHyphen(piece, pieces[i+1]) {
			b.WriteString("-")
		} else {
			b.WriteString(",")
		}
	}
	return b.String()
}

func (s *Segmenter) keepHyphen(before, after string) bool {
	if s.isDashCase(before, after) {
		return true
	}

	left := alnum(lastToken(before))
	right := alnum(firstToken(after))
	if hasDigit(left) && hasDigit(right) {
		return true
	}
	return utf8.RuneCountInString(right) <= 2 && !s.buildingPrefixes[strings.ToLower(right)]
}

func (s *Segmenter) isDashCase(before, after string) bool {
	lowBefore, lowAfter := strings.ToLower(before), strings.ToLower(after)
	plainBefore := normalizer.StripDiacritics(before)
	plainAfter := normalizer.StripDiacritics(after)
	for _, dc := range s.dashCases {
		if strings.Contains(lowBefore, dc.Left) && strings.Contains(lowAfter, dc.Right) {
			return true
		}
		left, right := normalizer.StripDiacritics(dc.Left), normalizer.StripDiacritics(dc.Right)
		if strings.Contains(plainBefore, left) && strings.Contains(plainAfter, right) {
			return true
		}
	}
	return false
}

func lastToken(s string) string {
	fields := strings.Split(strings.TrimSpace(s), " ")
	return fields[len(fields)-1]
}

func firstToken(s string) string {
	return strings.Split(strings.TrimSpace(s), " ")[0]
}

func alnum(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
