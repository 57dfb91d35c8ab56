package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// Canonicalize chuẩn hóa NFC, lowercase, gộp khoảng trắng và trim.
// Canonicalize(Canonicalize(x)) == Canonicalize(x).
func Canonicalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// FoldPunctuation chuyển dấu câu, ký hiệu và khoảng trắng ngoài ASCII
// (gạch ngang dài, nháy cong, NBSP...) về dạng ASCII qua unidecode.
// Chữ cái giữ nguyên nên dấu tiếng Việt không bị mất.
func FoldPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII || !foldable(r) {
			b.WriteRune(r)
			continue
		}
		folded := unidecode.Unidecode(string(r))
		if folded == "" {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(folded)
	}
	return b.String()
}

func foldable(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.Is(unicode.Zs, r)
}
