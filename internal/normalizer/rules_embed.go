package normalizer

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/aliases.yaml
var aliasesYAML []byte

//go:embed data/dash_cases.yaml
var dashCasesYAML []byte

//go:embed data/building_prefixes.yaml
var buildingPrefixesYAML []byte

//go:embed data/country_tokens.yaml
var countryTokensYAML []byte

// DashCase cặp tên hợp lệ nằm hai bên dấu gạch ngang
type DashCase struct {
	Left  string
	Right string
}

// UnmarshalYAML đọc cặp dạng [left, right]
func (d *DashCase) UnmarshalYAML(node *yaml.Node) error {
	var pair []string
	if err := node.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("dash case cần đúng 2 phần tử, nhận %d", len(pair))
	}
	d.Left, d.Right = Canonicalize(pair[0]), Canonicalize(pair[1])
	return nil
}

// Rules chứa các bảng quy tắc được load từ YAML nhúng
type Rules struct {
	// ProvinceAliases: tên chuẩn -> các cách viết khác
	ProvinceAliases  map[string][]string `yaml:"province_aliases"`
	DashCases        []DashCase          `yaml:"dash_cases"`
	BuildingPrefixes []string            `yaml:"building_prefixes"`
	CountryTokens    []string            `yaml:"country_tokens"`
}

// LoadRules load các bảng quy tắc từ embedded YAML files
func LoadRules() (*Rules, error) {
	rules := &Rules{}
	sources := []struct {
		name string
		data []byte
	}{
		{"aliases.yaml", aliasesYAML},
		{"dash_cases.yaml", dashCasesYAML},
		{"building_prefixes.yaml", buildingPrefixesYAML},
		{"country_tokens.yaml", countryTokensYAML},
	}
	for _, src := range sources {
		if err := yaml.Unmarshal(src.data, rules); err != nil {
			return nil, fmt.Errorf("lỗi đọc %s: %w", src.name, err)
		}
	}
	return rules, nil
}

// MustLoadRules giống LoadRules nhưng panic khi YAML nhúng hỏng
func MustLoadRules() *Rules {
	rules, err := LoadRules()
	if err != nil {
		panic(err)
	}
	return rules
}

// AliasTable trả về map alias (không dấu) -> tên tỉnh chuẩn
func (r *Rules) AliasTable() map[string]string {
	table := make(map[string]string)
	for canonical, aliases := range r.ProvinceAliases {
		for _, alias := range aliases {
			table[StripDiacritics(alias)] = canonical
		}
	}
	return table
}
