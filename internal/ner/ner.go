// Package ner gom nhãn BIO cấp token thành thực thể địa chỉ.
// Resolver không gọi package này; đây là công cụ bổ trợ độc lập.
package ner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrTaggerUnavailable binary được build không kèm tagger
var ErrTaggerUnavailable = errors.New("ner tagger không khả dụng trong bản build này")

// Nhãn thực thể địa chỉ
const (
	LabelProvince = "PROVINCE"
	LabelDistrict = "DISTRICT"
	LabelWard     = "WARD"
	LabelStreet   = "STREET"
	LabelHouse    = "HOUSE"
	LabelOutside  = "O"
)

// Token nhãn BIO của một token; Start/End là byte offset trong text gốc
type Token struct {
	Word   string  `json:"word"`
	Entity string  `json:"entity"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// Entity một thực thể đã gom từ các token liền kề cùng nhãn
type Entity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
}

// Group gom token B-/I- thành thực thể. Token "##" là phần tiếp của từ
// trước nên được nối liền, không chèn khoảng trắng.
func Group(tokens []Token) []Entity {
	var (
		out     []Entity
		current *Entity
	)
	flush := func() {
		if current != nil {
			out = append(out, *current)
			current = nil
		}
	}
	open := func(tok Token, label string) {
		flush()
		current = &Entity{
			Text:       strings.TrimPrefix(tok.Word, "##"),
			Label:      label,
			Confidence: tok.Score,
			Start:      tok.Start,
			End:        tok.End,
		}
	}

	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok.Entity, "B-"):
			open(tok, tok.Entity[2:])
		case strings.HasPrefix(tok.Entity, "I-"):
			label := tok.Entity[2:]
			if current == nil || current.Label != label {
				open(tok, label)
				continue
			}
			if strings.HasPrefix(tok.Word, "##") {
				current.Text += tok.Word[2:]
			} else if tok.Start > 0 && tok.Start == current.End {
				// token liền kề trong text gốc, ví dụ "TP" và "."
				current.Text += tok.Word
			} else {
				current.Text += " " + tok.Word
			}
			current.End = tok.End
			if tok.Score < current.Confidence {
				current.Confidence = tok.Score
			}
		default:
			flush()
		}
	}
	flush()
	return out
}

// Tagger gán nhãn BIO cho từng token của text
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Token, error)
}

// Recognizer chạy tagger rồi gom kết quả thành thực thể
type Recognizer struct {
	tagger Tagger
	logger *zap.Logger
}

// NewRecognizer tạo Recognizer; logger nil sẽ dùng zap.NewNop()
func NewRecognizer(tagger Tagger, logger *zap.Logger) *Recognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recognizer{tagger: tagger, logger: logger}
}

// Recognize trả về các thực thể trong text
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if r.tagger == nil {
		return nil, ErrTaggerUnavailable
	}
	tokens, err := r.tagger.Tag(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("tag thất bại: %w", err)
	}

	entities := Group(tokens)
	r.logger.Debug("Recognized entities",
		zap.String("text", text),
		zap.Int("tokens", len(tokens)),
		zap.Int("entities", len(entities)))
	return entities, nil
}
