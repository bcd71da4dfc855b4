package gemini_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentator_Comment_ReturnsErrorWhenTextEmpty(t *testing.T) {
	t.Parallel()

	c := gemini.NewCommentator(nil) // nil client ok for this test

	_, err := c.Comment(context.Background(), "某文档", "")

	require.Error(t, err)
	assert.Equal(t, repub.EINVALID, repub.ErrorCode(err))
	assert.Contains(t, repub.ErrorMessage(err), "document text required")
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	t.Run("includes title and content", func(t *testing.T) {
		t.Parallel()
		prompt := gemini.BuildUserPrompt("年度报告", "报告正文内容。")

		assert.Contains(t, prompt, "<title>年度报告</title>")
		assert.Contains(t, prompt, "<content>报告正文内容。</content>")
	})

	t.Run("truncates very long documents", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("长文本内容。", 20000)
		prompt := gemini.BuildUserPrompt("长文档", long)

		assert.Less(t, len([]rune(prompt)), len([]rune(long)))
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.4, float64(*config.Temperature), 0.001)
	require.NotNil(t, config.SystemInstruction)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "文档概述")
}
