package repub

import "context"

// Site layout constants shared by the localizer and the materializer. The
// canonical media layout is flat-with-prefix: every asset lives directly
// under MediaRoot named "<articleID>_<basename>". The materializer derives
// its depth adjustment for per-article pages from these values rather than
// hardcoding a prefix of its own.
const (
	// MediaRoot is the directory holding localized images, relative to the
	// site root.
	MediaRoot = "images"

	// ArticleDir is the directory holding per-article pages, relative to
	// the site root. Pages there live one level deeper than the index, so
	// body references into MediaRoot need a "../" prefix.
	ArticleDir = "articles"

	// UploadRoot is the directory name holding uploaded source documents,
	// referenced by the url field of document-derived articles.
	UploadRoot = "uploads"
)

// SiteBuilder deterministically regenerates the static site from the record
// store: one page per article plus an index referencing all of them.
// Building twice from an unchanged store yields byte-identical output.
type SiteBuilder interface {
	Build(ctx context.Context, articles []*Article) error
}

// DocumentReader extracts plain text from an uploaded document file.
type DocumentReader interface {
	ExtractText(path string) (string, error)
}
