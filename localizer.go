package repub

import "context"

// LocalizeResult reports the outcome of localizing one article body.
type LocalizeResult struct {
	// HTML is the body markup with every successfully localized image
	// reference rewritten to a local relative path.
	HTML string

	// Downloaded counts images fetched and stored by this call.
	Downloaded int

	// Skipped counts images whose local copy already existed.
	Skipped int

	// Warnings describes images left pointing at their remote URL after a
	// failed download. Failures degrade to identity, never abort.
	Warnings []string
}

// RemoteMediaHosts is the allowlist of hosts whose images are localized.
// Image URLs on any other host are left untouched.
var RemoteMediaHosts = []string{"mmbiz.qpic.cn", "res.wx.qq.com"}

// MediaStore stores localized image files under the media root. Assets are
// never mutated, only created if absent.
type MediaStore interface {
	// Exists reports whether the named asset is already present.
	Exists(name string) bool

	// WriteImage persists an asset atomically. It returns false without
	// writing when the asset already exists, so two concurrent writes of
	// the same name cannot race past the existence check.
	WriteImage(name string, data []byte) (created bool, err error)
}

// Localizer finds remote image references in body markup, stores each one
// exactly once under a deterministic local name prefixed with the article ID,
// and rewrites the references to the local copies. Localizing the same body
// twice performs no second download.
type Localizer interface {
	Localize(ctx context.Context, articleID, html string) (*LocalizeResult, error)
}
