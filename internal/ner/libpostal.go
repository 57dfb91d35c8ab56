//go:build libpostal

package ner

import (
	"context"
	"strings"

	postal "github.com/openvenues/gopostal/parser"
)

// nhãn libpostal -> nhãn địa chỉ
var libpostalLabels = map[string]string{
	"state":         LabelProvince,
	"city":          LabelDistrict,
	"city_district": LabelDistrict,
	"suburb":        LabelWard,
	"road":          LabelStreet,
	"house_number":  LabelHouse,
}

// LibpostalTagger tagger CRF của libpostal, cần build với tag libpostal
type LibpostalTagger struct {
	options postal.ParserOptions
}

// NewLibpostalTagger tạo tagger cho địa chỉ Việt Nam
func NewLibpostalTagger() (*LibpostalTagger, error) {
	return &LibpostalTagger{options: postal.ParserOptions{Language: "vi", Country: "vn"}}, nil
}

// Tag mỗi component libpostal thành một chuỗi B-/I- token
func (t *LibpostalTagger) Tag(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lowered := strings.ToLower(text)
	cursor := 0
	var tokens []Token
	for _, c := range postal.ParseAddressOptions(text, t.options) {
		label, ok := libpostalLabels[c.Label]
		for i, word := range strings.Fields(c.Value) {
			tok := Token{Word: word, Entity: LabelOutside, Score: 1, Start: -1, End: -1}
			if pos := strings.Index(lowered[cursor:], word); pos >= 0 {
				tok.Start = cursor + pos
				tok.End = tok.Start + len(word)
				cursor = tok.End
			}
			if ok {
				if i == 0 {
					tok.Entity = "B-" + label
				} else {
					tok.Entity = "I-" + label
				}
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}
