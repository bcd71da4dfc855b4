package repub_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/repub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticle_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *repub.Article {
		return &repub.Article{
			ID:    "wechat-abc",
			Title: "Test Title",
			Date:  "2025-03-01",
			Tags:  []string{"AI"},
		}
	}

	t.Run("valid article", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, valid().Validate())
	})

	t.Run("missing ID", func(t *testing.T) {
		t.Parallel()
		a := valid()
		a.ID = ""
		err := a.Validate()
		require.Error(t, err)
		assert.Equal(t, repub.EINVALID, repub.ErrorCode(err))
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		a := valid()
		a.Title = ""
		assert.Equal(t, repub.EINVALID, repub.ErrorCode(a.Validate()))
	})

	t.Run("empty tags", func(t *testing.T) {
		t.Parallel()
		a := valid()
		a.Tags = nil
		assert.Equal(t, repub.EINVALID, repub.ErrorCode(a.Validate()))
	})

	t.Run("malformed date", func(t *testing.T) {
		t.Parallel()
		a := valid()
		a.Date = "03/01/2025"
		assert.Equal(t, repub.EINVALID, repub.ErrorCode(a.Validate()))
	})
}

func TestArticle_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("substitutes placeholder below content floor", func(t *testing.T) {
		t.Parallel()

		a := &repub.Article{ID: "x", Content: "<p>too short</p>"}
		a.Normalize()

		assert.Equal(t, repub.PlaceholderContent, a.Content)
		assert.Equal(t, repub.DefaultTitle, a.Title)
		assert.Equal(t, repub.DefaultSource, a.Source)
		assert.Equal(t, repub.DefaultTags(), a.Tags)
	})

	t.Run("content floor counts runes, not bytes", func(t *testing.T) {
		t.Parallel()

		// 50 runes of CJK text is 150 bytes; only the rune count matters.
		a := &repub.Article{ID: "x", Content: "<p>" + strings.Repeat("短", 50) + "</p>"}
		a.Normalize()

		assert.Equal(t, repub.PlaceholderContent, a.Content)
	})

	t.Run("keeps body above content floor", func(t *testing.T) {
		t.Parallel()

		body := "<p>" + strings.Repeat("正文", 100) + "</p>"
		a := &repub.Article{ID: "x", Title: "t", Content: body, Tags: []string{"AI"}}
		a.Normalize()

		assert.Equal(t, body, a.Content)
		assert.NotEmpty(t, a.Summary)
	})

	t.Run("normalize twice is stable", func(t *testing.T) {
		t.Parallel()

		a := &repub.Article{ID: "x", Content: "<p>short</p>"}
		a.Normalize()
		first := *a
		a.Normalize()

		assert.Equal(t, first.Content, a.Content)
		assert.Equal(t, first.Summary, a.Summary)
	})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "strips markup",
			content: "<p>Hello <strong>world</strong></p>",
			want:    "Hello world",
		},
		{
			name:    "collapses whitespace",
			content: "<p>a\n\n  b</p>",
			want:    "a b",
		},
		{
			name:    "truncates with ellipsis",
			content: strings.Repeat("字", 300),
			want:    strings.Repeat("字", 200) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, repub.Summarize(tt.content))
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{
			name: "deduplicates preserving order",
			tags: []string{"AI", "技术", "AI"},
			want: []string{"AI", "技术"},
		},
		{
			name: "caps at five",
			tags: []string{"a", "b", "c", "d", "e", "f", "g"},
			want: []string{"a", "b", "c", "d", "e"},
		},
		{
			name: "default set when empty",
			tags: nil,
			want: repub.DefaultTags(),
		},
		{
			name: "default set when only blanks",
			tags: []string{"", "  "},
			want: repub.DefaultTags(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, repub.NormalizeTags(tt.tags))
		})
	}
}
