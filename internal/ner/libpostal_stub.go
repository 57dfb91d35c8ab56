//go:build !libpostal

package ner

import "context"

// LibpostalTagger bản build không có libpostal; mọi lời gọi trả ErrTaggerUnavailable
type LibpostalTagger struct{}

// NewLibpostalTagger luôn lỗi khi thiếu build tag libpostal
func NewLibpostalTagger() (*LibpostalTagger, error) {
	return nil, ErrTaggerUnavailable
}

func (t *LibpostalTagger) Tag(context.Context, string) ([]Token, error) {
	return nil, ErrTaggerUnavailable
}
