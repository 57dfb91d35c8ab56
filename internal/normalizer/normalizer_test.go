package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestCanonicalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n ", ""},
		{"mixed case", "TP Hồ Chí Minh", "tp hồ chí minh"},
		{"collapse spaces", "  Quận   1 ,  Hà  Nội ", "quận 1 , hà nội"},
		{"upper accented", "ĐẮK LẮK", "đắk lắk"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Canonicalize(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, got, Canonicalize(got), "Canonicalize phải idempotent")
		})
	}
}

func TestCanonicalize_DecomposedInput(t *testing.T) {
	composed := "Phường Bến Nghé"
	decomposed := norm.NFD.String(composed)
	require.NotEqual(t, composed, decomposed)

	assert.Equal(t, Canonicalize(composed), Canonicalize(decomposed))
}

func TestStripDiacritics(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Hồ Chí Minh", "ho chi minh"},
		{"Đắk Lắk", "dak lak"},
		{"ĐắkLắk", "daklak"},
		{"Thừa Thiên - Huế", "thua thien - hue"},
		{"  Bà   Rịa ", "ba ria"},
		{"quan 1", "quan 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := StripDiacritics(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, got, StripDiacritics(got))
		})
	}
}

func TestForms(t *testing.T) {
	accented, unaccented := Forms("  Lâm  Đồng ")
	assert.Equal(t, "lâm đồng", accented)
	assert.Equal(t, "lam dong", unaccented)
}

func TestFoldPunctuation(t *testing.T) {
	assert.Equal(t, "Bà Rịa - Vũng Tàu", FoldPunctuation("Bà Rịa – Vũng Tàu"))
	assert.Equal(t, "Quận 1, Hồ Chí Minh", FoldPunctuation("Quận 1, Hồ Chí Minh"))
	// chữ có dấu không bị đụng tới
	assert.Equal(t, "Phường Đa Kao", FoldPunctuation("Phường Đa Kao"))
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules()
	require.NoError(t, err)

	aliases := rules.AliasTable()
	assert.Equal(t, "ĐắkLắk", aliases["dak lak"])
	assert.Equal(t, "ĐắkLắk", aliases["daclac"])
	assert.Equal(t, "Bà Rịa - Vũng Tàu", aliases["br-vt"])
	assert.Equal(t, "Kon Tum", aliases["con tum"])
	assert.Equal(t, "Thừa Thiên - Huế", aliases["tt hue"])

	require.Len(t, rules.DashCases, 8)
	assert.Equal(t, DashCase{Left: "bà rịa", Right: "vũng tàu"}, rules.DashCases[0])

	assert.ElementsMatch(t, []string{"ct", "hh", "bt", "ps", "ls", "cd"}, rules.BuildingPrefixes)
	assert.Contains(t, rules.CountryTokens, "việt nam")
}
