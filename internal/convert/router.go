package convert

import (
	"context"

	"github.com/ytget/markitdown-app/internal/model"
)

// Router sends video URLs to a dedicated converter and every other source to
// the document backend
type Router struct {
	Document Converter
	Video    Converter
	IsVideo  func(source string) bool
}

// Convert dispatches source to the matching backend
func (r *Router) Convert(ctx context.Context, source string, opts Options) (*model.ConversionResult, error) {
	if r.Video != nil && r.IsVideo != nil && r.IsVideo(source) {
		return r.Video.Convert(ctx, source, opts)
	}
	if r.Document == nil {
		return nil, ErrBinaryNotFound
	}
	return r.Document.Convert(ctx, source, opts)
}
