package ner

import (
	"regexp"
	"strings"

	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/resolver"
)

// dấu câu được tách thành token riêng
var tokenPattern = regexp.MustCompile(`[.,!?()]|[^\s.,!?()]+`)

// Tokenize tách text thành token theo khoảng trắng, dấu câu là token riêng.
// Mọi token ban đầu mang nhãn O.
func Tokenize(text string) []Token {
	locs := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, len(locs))
	for _, loc := range locs {
		tokens = append(tokens, Token{
			Word:   text[loc[0]:loc[1]],
			Entity: LabelOutside,
			Score:  1,
			Start:  loc[0],
			End:    loc[1],
		})
	}
	return tokens
}

// matchKey dạng so khớp của một đoạn text: chuẩn hóa, bỏ khoảng trắng và
// các dấu câu mà segmenter có thể đã xóa
func matchKey(s string) string {
	s = normalizer.Canonicalize(normalizer.FoldPunctuation(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', ',', '!', '?', '(', ')':
			return -1
		}
		return r
	}, s)
}

// TagPhrase gắn B-/I- label cho lần xuất hiện đầu tiên của phrase trên
// các token còn mang nhãn O. So sánh không phân biệt hoa thường, bỏ qua
// khoảng trắng và dấu câu nên "tp hồ chí minh" khớp "TP. Hồ Chí Minh".
func TagPhrase(tokens []Token, phrase, label string) bool {
	want := matchKey(phrase)
	if want == "" {
		return false
	}

	for i := range tokens {
		end, ok := spanMatches(tokens, i, want)
		if !ok {
			continue
		}
		tokens[i].Entity = "B-" + label
		for j := i + 1; j <= end; j++ {
			tokens[j].Entity = "I-" + label
		}
		return true
	}
	return false
}

// spanMatches tìm token cuối j sao cho tokens[i..j] ghép lại đúng bằng want.
// Span phải bắt đầu bằng token có chữ và chỉ gồm token nhãn O.
func spanMatches(tokens []Token, i int, want string) (int, bool) {
	first := matchKey(tokens[i].Word)
	if first == "" || !strings.HasPrefix(want, first) {
		return 0, false
	}

	got := ""
	for j := i; j < len(tokens); j++ {
		if tokens[j].Entity != LabelOutside {
			return 0, false
		}
		got += matchKey(tokens[j].Word)
		switch {
		case got == want:
			return j, true
		case !strings.HasPrefix(want, got):
			return 0, false
		}
	}
	return 0, false
}

var tierLabels = map[gazetteer.Tier]string{
	gazetteer.TierProvince: LabelProvince,
	gazetteer.TierDistrict: LabelDistrict,
	gazetteer.TierWard:     LabelWard,
}

// TagResolution gắn nhãn text theo trace của resolver. Mỗi bước gán được
// tag bằng chính đoạn text đã khớp, nên giá trị lấy từ alias hay fuzzy
// ("đắklắk" cho "Dac Lak") vẫn tìm được token gốc.
func TagResolution(text string, res resolver.Resolution) []Token {
	tokens := Tokenize(text)
	for _, step := range res.Trace {
		label, ok := tierLabels[step.Tier]
		if !ok {
			continue
		}
		if !TagPhrase(tokens, step.Segment, label) && step.Candidate != "" {
			TagPhrase(tokens, step.Candidate, label)
		}
	}
	return tokens
}
