package goquery_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/goquery"
	"github.com/fwojciec/repub/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalName(t *testing.T) {
	t.Parallel()

	t.Run("uses path basename with recognizable extension", func(t *testing.T) {
		t.Parallel()
		got := goquery.LocalName("wechat-abc", "https://mmbiz.qpic.cn/mmbiz_jpg/pic.jpg")
		assert.Equal(t, "wechat-abc_pic.jpg", got)
	})

	t.Run("hash-derived name without extension", func(t *testing.T) {
		t.Parallel()
		got := goquery.LocalName("wechat-abc", "https://mmbiz.qpic.cn/mmbiz_jpg/xyz/640?wx_fmt=jpeg")
		assert.Regexp(t, `^wechat-abc_[0-9a-f]{16}\.jpg$`, got)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		url := "https://mmbiz.qpic.cn/mmbiz_jpg/xyz/640"
		assert.Equal(t, goquery.LocalName("a", url), goquery.LocalName("a", url))
		assert.NotEqual(t, goquery.LocalName("a", url), goquery.LocalName("b", url))
	})
}

func TestLocalizer_Localize(t *testing.T) {
	t.Parallel()

	t.Run("downloads and rewrites allowlisted images", func(t *testing.T) {
		t.Parallel()

		var fetched atomic.Int32
		images := &mock.ImageFetcher{
			FetchImageFn: func(ctx context.Context, url string) ([]byte, error) {
				fetched.Add(1)
				return []byte("img"), nil
			},
		}
		media := &mock.MediaStore{}
		l := goquery.NewLocalizer(images, media)

		body := `<p>text</p><img src="https://mmbiz.qpic.cn/pic.jpg" data-src="https://mmbiz.qpic.cn/pic.jpg">`
		result, err := l.Localize(context.Background(), "wechat-abc", body)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Downloaded)
		assert.Zero(t, result.Skipped)
		assert.Empty(t, result.Warnings)
		assert.Contains(t, result.HTML, `src="images/wechat-abc_pic.jpg"`)
		assert.NotContains(t, result.HTML, "mmbiz.qpic.cn")
		assert.EqualValues(t, 1, fetched.Load())
		assert.Contains(t, media.Images, "wechat-abc_pic.jpg")
	})

	t.Run("second run performs no fetch", func(t *testing.T) {
		t.Parallel()

		var fetched atomic.Int32
		images := &mock.ImageFetcher{
			FetchImageFn: func(ctx context.Context, url string) ([]byte, error) {
				fetched.Add(1)
				return []byte("img"), nil
			},
		}
		media := &mock.MediaStore{}
		l := goquery.NewLocalizer(images, media)
		body := `<img src="https://mmbiz.qpic.cn/pic.jpg">`

		first, err := l.Localize(context.Background(), "a", body)
		require.NoError(t, err)
		second, err := l.Localize(context.Background(), "a", body)
		require.NoError(t, err)

		assert.EqualValues(t, 1, fetched.Load())
		assert.Equal(t, 1, second.Skipped)
		assert.Zero(t, second.Downloaded)
		assert.Equal(t, first.HTML, second.HTML)
	})

	t.Run("ignores images on other hosts", func(t *testing.T) {
		t.Parallel()

		images := &mock.ImageFetcher{
			FetchImageFn: func(ctx context.Context, url string) ([]byte, error) {
				t.Errorf("unexpected fetch of %s", url)
				return nil, nil
			},
		}
		l := goquery.NewLocalizer(images, &mock.MediaStore{})

		body := `<img src="https://example.com/pic.jpg">`
		result, err := l.Localize(context.Background(), "a", body)

		require.NoError(t, err)
		assert.Equal(t, body, result.HTML)
	})

	t.Run("download failure degrades to remote URL with warning", func(t *testing.T) {
		t.Parallel()

		images := &mock.ImageFetcher{
			FetchImageFn: func(ctx context.Context, url string) ([]byte, error) {
				return nil, repub.Errorf(repub.EUNAVAILABLE, "HTTP 503")
			},
		}
		l := goquery.NewLocalizer(images, &mock.MediaStore{})

		body := `<img src="https://mmbiz.qpic.cn/pic.jpg">`
		result, err := l.Localize(context.Background(), "a", body)

		require.NoError(t, err)
		assert.Contains(t, result.HTML, "https://mmbiz.qpic.cn/pic.jpg")
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "HTTP 503")
		assert.Zero(t, result.Downloaded)
	})

	t.Run("body without images passes through verbatim", func(t *testing.T) {
		t.Parallel()

		l := goquery.NewLocalizer(&mock.ImageFetcher{}, &mock.MediaStore{})
		body := `<p>no images here</p>`

		result, err := l.Localize(context.Background(), "a", body)

		require.NoError(t, err)
		assert.Equal(t, body, result.HTML)
	})

	t.Run("duplicate references fetch once", func(t *testing.T) {
		t.Parallel()

		var fetched atomic.Int32
		images := &mock.ImageFetcher{
			FetchImageFn: func(ctx context.Context, url string) ([]byte, error) {
				fetched.Add(1)
				return []byte("img"), nil
			},
		}
		l := goquery.NewLocalizer(images, &mock.MediaStore{})

		body := `<img src="https://mmbiz.qpic.cn/pic.jpg"><img src="https://mmbiz.qpic.cn/pic.jpg">`
		result, err := l.Localize(context.Background(), "a", body)

		require.NoError(t, err)
		assert.EqualValues(t, 1, fetched.Load())
		assert.NotContains(t, result.HTML, "mmbiz.qpic.cn")
	})
}
