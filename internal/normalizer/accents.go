package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// đ/Đ không được tách dấu bởi NFD nên phải map riêng
var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// StripDiacritics loại bỏ dấu tiếng Việt rồi canonicalize kết quả.
// Chỉ dùng làm khóa so khớp, không bao giờ dùng cho giá trị trả về.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return Canonicalize(dStroke.Replace(out))
}

// isMn kiểm tra xem rune có phải là diacritic mark không
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// Forms trả về cả hai dạng (có dấu, không dấu) của một chuỗi
func Forms(s string) (accented, unaccented string) {
	accented = Canonicalize(s)
	return accented, StripDiacritics(accented)
}
