package mock

import (
	"context"

	"github.com/fwojciec/repub"
)

var _ repub.Converter = (*Converter)(nil)

// Converter is a mock implementation of repub.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ repub.DocumentReader = (*DocumentReader)(nil)

// DocumentReader is a mock implementation of repub.DocumentReader.
type DocumentReader struct {
	ExtractTextFn func(path string) (string, error)
}

func (r *DocumentReader) ExtractText(path string) (string, error) {
	return r.ExtractTextFn(path)
}

var _ repub.SiteBuilder = (*SiteBuilder)(nil)

// SiteBuilder is a mock implementation of repub.SiteBuilder.
type SiteBuilder struct {
	BuildFn func(ctx context.Context, articles []*repub.Article) error
}

func (b *SiteBuilder) Build(ctx context.Context, articles []*repub.Article) error {
	return b.BuildFn(ctx, articles)
}
