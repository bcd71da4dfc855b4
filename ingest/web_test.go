package ingest_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/goquery"
	"github.com/fwojciec/repub/ingest"
	"github.com/fwojciec/repub/jsonstore"
	"github.com/fwojciec/repub/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebArticleID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr string
	}{
		{
			name: "article path segment",
			url:  "https://mp.weixin.qq.com/s/XYZ",
			want: "wechat-XYZ",
		},
		{
			name: "query string ignored",
			url:  "https://mp.weixin.qq.com/s/XYZ?chksm=abc&scene=21",
			want: "wechat-XYZ",
		},
		{
			name: "trailing slash ignored",
			url:  "https://mp.weixin.qq.com/s/XYZ/",
			want: "wechat-XYZ",
		},
		{
			name:    "non-platform host rejected",
			url:     "https://example.com/s/XYZ",
			wantErr: repub.EUNSUPPORTED,
		},
		{
			name:    "missing path segment rejected",
			url:     "https://mp.weixin.qq.com/",
			wantErr: repub.EINVALID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ingest.WebArticleID(tt.url)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, repub.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// wechatPage builds a realistic article page around the given body markup.
func wechatPage(title, body string) string {
	return `<html><head><title>page</title></head><body>` +
		`<h1 class="rich_media_title" id="activity-name">` + title + `</h1>` +
		`<div class="profile_nickname">测试公众号</div>` +
		`<div class="rich_media_content" id="js_content">` + body + `</div>` +
		`</body></html>`
}

func webPipeline(t *testing.T, fetcher repub.Fetcher, images repub.ImageFetcher) (*ingest.Pipeline, *jsonstore.Store) {
	t.Helper()
	store := jsonstore.NewStore(filepath.Join(t.TempDir(), "articles.json"))
	return &ingest.Pipeline{
		Articles:  store,
		Fetcher:   fetcher,
		Extractor: goquery.NewExtractor(),
		Localizer: goquery.NewLocalizer(images, &mock.MediaStore{}),
	}, store
}

func TestPipeline_IngestURL(t *testing.T) {
	t.Parallel()

	body := `<p>` + strings.Repeat("人工智能正文内容，", 20) + `</p><img data-src="https://mmbiz.qpic.cn/pic.jpg">`

	t.Run("ingests a platform article end to end", func(t *testing.T) {
		t.Parallel()
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return wechatPage("Test Title", body), nil
			},
		}
		images := &mock.ImageFetcher{
			FetchImageFn: func(context.Context, string) ([]byte, error) {
				return []byte("jpeg"), nil
			},
		}
		p, store := webPipeline(t, fetcher, images)

		a, err := p.IngestURL(context.Background(), "https://mp.weixin.qq.com/s/XYZ", ingest.Options{})
		require.NoError(t, err)

		assert.Equal(t, "wechat-XYZ", a.ID)
		assert.Equal(t, "Test Title", a.Title)
		assert.Equal(t, "测试公众号", a.Source)
		assert.Contains(t, a.Content, "images/wechat-XYZ_pic.jpg")
		assert.NotContains(t, a.Content, "mmbiz.qpic.cn")
		assert.NotEmpty(t, a.Summary)
		assert.NotEmpty(t, a.Tags)

		stored, err := store.FindArticleByID(context.Background(), "wechat-XYZ")
		require.NoError(t, err)
		assert.Equal(t, a, stored)
	})

	t.Run("second ingestion replaces instead of duplicating", func(t *testing.T) {
		t.Parallel()
		title := "First Title"
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return wechatPage(title, body), nil
			},
		}
		images := &mock.ImageFetcher{
			FetchImageFn: func(context.Context, string) ([]byte, error) {
				return []byte("jpeg"), nil
			},
		}
		p, store := webPipeline(t, fetcher, images)

		first, err := p.IngestURL(context.Background(), "https://mp.weixin.qq.com/s/XYZ", ingest.Options{})
		require.NoError(t, err)

		title = "Second Title"
		second, err := p.IngestURL(context.Background(), "https://mp.weixin.qq.com/s/XYZ", ingest.Options{})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Date, second.Date, "date is not re-derived on update")

		articles, err := store.FindArticles(context.Background())
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "Second Title", articles[0].Title)
	})

	t.Run("rejects non-platform URL before any side effect", func(t *testing.T) {
		t.Parallel()
		var fetched atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				fetched.Add(1)
				return "", nil
			},
		}
		p, store := webPipeline(t, fetcher, nil)

		_, err := p.IngestURL(context.Background(), "https://example.com/post/1", ingest.Options{})
		require.Error(t, err)
		assert.Equal(t, repub.EUNSUPPORTED, repub.ErrorCode(err))
		assert.Zero(t, fetched.Load())

		articles, err := store.FindArticles(context.Background())
		require.NoError(t, err)
		assert.Empty(t, articles)
	})

	t.Run("challenge page yields the restricted article", func(t *testing.T) {
		t.Parallel()
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "<html><body>环境异常，请完成验证</body></html>", nil
			},
		}
		p, store := webPipeline(t, fetcher, nil)

		a, err := p.IngestURL(context.Background(), "https://mp.weixin.qq.com/s/XYZ", ingest.Options{})
		require.NoError(t, err, "a challenge page is a degraded success, not a failure")

		assert.Equal(t, "wechat-XYZ", a.ID)
		assert.Equal(t, repub.DefaultTitle, a.Title)
		assert.Contains(t, a.Content, "访问限制")
		assert.Equal(t, "https://mp.weixin.qq.com/s/XYZ", a.URL)

		_, err = store.FindArticleByID(context.Background(), "wechat-XYZ")
		assert.NoError(t, err)
	})

	t.Run("browser fallback recovers a challenge page", func(t *testing.T) {
		t.Parallel()
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "环境异常", nil
			},
		}
		browser := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return wechatPage("Rendered Title", body), nil
			},
		}
		images := &mock.ImageFetcher{
			FetchImageFn: func(context.Context, string) ([]byte, error) {
				return []byte("jpeg"), nil
			},
		}
		p, _ := webPipeline(t, fetcher, images)
		p.Browser = browser

		a, err := p.IngestURL(context.Background(), "https://mp.weixin.qq.com/s/XYZ", ingest.Options{})
		require.NoError(t, err)
		assert.Equal(t, "Rendered Title", a.Title)
	})

	t.Run("fetch failure without fallback is fatal", func(t *testing.T) {
		t.Parallel()
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("connection refused")
			},
		}
		p, _ := webPipeline(t, fetcher, nil)

		_, err := p.IngestURL(context.Background(), "https://mp.weixin.qq.com/s/XYZ", ingest.Options{})
		require.Error(t, err)
		assert.Equal(t, repub.EUNAVAILABLE, repub.ErrorCode(err))
	})

	t.Run("localization failure degrades to remote references", func(t *testing.T) {
		t.Parallel()
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return wechatPage("Test Title", body), nil
			},
		}
		images := &mock.ImageFetcher{
			FetchImageFn: func(context.Context, string) ([]byte, error) {
				return nil, errors.New("timeout")
			},
		}
		p, _ := webPipeline(t, fetcher, images)

		a, err := p.IngestURL(context.Background(), "https://mp.weixin.qq.com/s/XYZ", ingest.Options{})
		require.NoError(t, err)
		assert.Contains(t, a.Content, "mmbiz.qpic.cn", "failed download leaves the remote URL in place")
	})

	t.Run("overrides replace title and tags", func(t *testing.T) {
		t.Parallel()
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return wechatPage("Extracted Title", body), nil
			},
		}
		images := &mock.ImageFetcher{
			FetchImageFn: func(context.Context, string) ([]byte, error) {
				return []byte("jpeg"), nil
			},
		}
		p, _ := webPipeline(t, fetcher, images)

		a, err := p.IngestURL(context.Background(), "https://mp.weixin.qq.com/s/XYZ", ingest.Options{
			Title: "自定义标题",
			Tags:  []string{"自定义", "自定义", "标签"},
		})
		require.NoError(t, err)
		assert.Equal(t, "自定义标题", a.Title)
		assert.Equal(t, []string{"自定义", "标签"}, a.Tags)
	})
}
