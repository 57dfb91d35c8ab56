package ner

import (
	"context"
	"errors"
	"testing"

	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	testCases := []struct {
		name   string
		tokens []Token
		want   []Entity
	}{
		{
			name: "subword merge",
			tokens: []Token{
				{Word: "Đà", Entity: "B-LOC", Score: 0.99, Start: 0, End: 4},
				{Word: "##Lạt", Entity: "I-LOC", Score: 0.95, Start: 4, End: 8},
			},
			want: []Entity{{Text: "ĐàLạt", Label: "LOC", Confidence: 0.95, Start: 0, End: 8}},
		},
		{
			name: "space join and min confidence",
			tokens: []Token{
				{Word: "Lâm", Entity: "B-LOC", Score: 0.9, Start: 0, End: 4},
				{Word: "Đồng", Entity: "I-LOC", Score: 0.8, Start: 5, End: 11},
				{Word: ",", Entity: "O", Score: 1, Start: 11, End: 12},
				{Word: "Việt", Entity: "B-LOC", Score: 0.7, Start: 13, End: 18},
			},
			want: []Entity{
				{Text: "Lâm Đồng", Label: "LOC", Confidence: 0.8, Start: 0, End: 11},
				{Text: "Việt", Label: "LOC", Confidence: 0.7, Start: 13, End: 18},
			},
		},
		{
			name: "orphan continuation opens entity",
			tokens: []Token{
				{Word: "Huế", Entity: "I-LOC", Score: 0.6, Start: 0, End: 5},
				{Word: "Nam", Entity: "I-PER", Score: 0.5, Start: 6, End: 9},
			},
			want: []Entity{
				{Text: "Huế", Label: "LOC", Confidence: 0.6, Start: 0, End: 5},
				{Text: "Nam", Label: "PER", Confidence: 0.5, Start: 6, End: 9},
			},
		},
		{
			name:   "outside only",
			tokens: []Token{{Word: "số", Entity: "O"}},
			want:   nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Group(tc.tokens))
		})
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Quận 1, TP.HCM")
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		words = append(words, tok.Word)
		assert.Equal(t, LabelOutside, tok.Entity)
	}
	assert.Equal(t, []string{"Quận", "1", ",", "TP", ".", "HCM"}, words)
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, len("Quận"), tokens[0].End)
}

func TestTagPhrase(t *testing.T) {
	tokens := Tokenize("Phường Bến Nghé, Quận 1")

	assert.True(t, TagPhrase(tokens, "phường bến nghé", LabelWard))
	assert.False(t, TagPhrase(tokens, "phường bến nghé", LabelWard), "token đã gắn nhãn không được gắn lại")
	assert.False(t, TagPhrase(tokens, "", LabelDistrict))
	assert.False(t, TagPhrase(tokens, "quận 2", LabelDistrict))

	entities := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		entities = append(entities, tok.Entity)
	}
	assert.Equal(t, []string{"B-WARD", "I-WARD", "I-WARD", "O", "O", "O"}, entities)
}

func TestTagPhrase_IgnoresPunctuation(t *testing.T) {
	tokens := Tokenize("Quận 10, TP.HCM")

	assert.False(t, TagPhrase(tokens, "quận 1", LabelDistrict), "không được khớp một phần token")
	assert.True(t, TagPhrase(tokens, "tphcm", LabelProvince))

	entities := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		entities = append(entities, tok.Entity)
	}
	assert.Equal(t, []string{"O", "O", "O", "B-PROVINCE", "I-PROVINCE", "I-PROVINCE"}, entities)
}

func TestTagResolution(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		trace []resolver.Step
		want  []Entity
	}{
		{
			name: "segments in source order",
			text: "Phường Bến Nghé, Quận 1, Hồ Chí Minh",
			trace: []resolver.Step{
				{Pass: 1, Segment: "hồ chí minh", Tier: gazetteer.TierProvince, Method: resolver.MethodFuzzy, Candidate: "hồ chí minh"},
				{Pass: 2, Segment: "quận 1", Tier: gazetteer.TierDistrict, Method: resolver.MethodClassifier},
				{Pass: 2, Segment: "phường bến nghé", Tier: gazetteer.TierWard, Method: resolver.MethodClassifier},
			},
			want: []Entity{
				{Text: "Phường Bến Nghé", Label: LabelWard, Confidence: 1, Start: 0, End: len("Phường Bến Nghé")},
				{Text: "Quận 1", Label: LabelDistrict, Confidence: 1, Start: len("Phường Bến Nghé, "), End: len("Phường Bến Nghé, Quận 1")},
				{Text: "Hồ Chí Minh", Label: LabelProvince, Confidence: 1, Start: len("Phường Bến Nghé, Quận 1, "), End: len("Phường Bến Nghé, Quận 1, Hồ Chí Minh")},
			},
		},
		{
			name: "alias value differs from source",
			text: "Dac Lak",
			trace: []resolver.Step{
				{Pass: 1, Segment: "dac lak", Tier: gazetteer.TierProvince, Method: resolver.MethodFuzzy, Candidate: "đắklắk"},
			},
			want: []Entity{
				{Text: "Dac Lak", Label: LabelProvince, Confidence: 1, Start: 0, End: len("Dac Lak")},
			},
		},
		{
			name: "dot dropped by segmenter",
			text: "Quận 1, TP. Hồ Chí Minh",
			trace: []resolver.Step{
				{Pass: 1, Segment: "tp hồ chí minh", Tier: gazetteer.TierProvince, Method: resolver.MethodClassifier},
				{Pass: 2, Segment: "quận 1", Tier: gazetteer.TierDistrict, Method: resolver.MethodClassifier},
			},
			want: []Entity{
				{Text: "Quận 1", Label: LabelDistrict, Confidence: 1, Start: 0, End: len("Quận 1")},
				{Text: "TP. Hồ Chí Minh", Label: LabelProvince, Confidence: 1, Start: len("Quận 1, "), End: len("Quận 1, TP. Hồ Chí Minh")},
			},
		},
		{
			name: "candidate used when segment is absent from text",
			text: "Hồ Chí Minh",
			trace: []resolver.Step{
				{Pass: 1, Segment: "hcm", Tier: gazetteer.TierProvince, Method: resolver.MethodFuzzy, Candidate: "hồ chí minh"},
			},
			want: []Entity{
				{Text: "Hồ Chí Minh", Label: LabelProvince, Confidence: 1, Start: 0, End: len("Hồ Chí Minh")},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := TagResolution(tc.text, resolver.Resolution{Trace: tc.trace})
			assert.Equal(t, tc.want, Group(tokens))
		})
	}
}

type stubTagger struct {
	tokens []Token
	err    error
}

func (s stubTagger) Tag(context.Context, string) ([]Token, error) { return s.tokens, s.err }

func TestRecognizer(t *testing.T) {
	r := NewRecognizer(stubTagger{tokens: []Token{
		{Word: "Gia", Entity: "B-PROVINCE", Score: 0.9},
		{Word: "Lai", Entity: "I-PROVINCE", Score: 0.85},
	}}, nil)

	entities, err := r.Recognize(context.Background(), "Gia Lai")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "Gia Lai", entities[0].Text)
	assert.Equal(t, 0.85, entities[0].Confidence)

	boom := errors.New("boom")
	_, err = NewRecognizer(stubTagger{err: boom}, nil).Recognize(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	_, err = NewRecognizer(nil, nil).Recognize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrTaggerUnavailable)
}
