package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/repub/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	f.Add("wechat-abc_pic.jpg")
	f.Add("pdf-1a2b3c4d5e6f_cover.png")

	assert.True(t, f.Test("wechat-abc_pic.jpg"))
	assert.True(t, f.Test("pdf-1a2b3c4d5e6f_cover.png"))
	assert.False(t, f.Test("wechat-xyz_other.jpg"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)
	for i := 0; i < 500; i++ {
		f.Add(fmt.Sprintf("wechat-%d_pic.jpg", i))
	}

	count := f.EstimatedCount()
	assert.InDelta(t, 500, float64(count), 50)
}
