package ingest

import (
	"strings"

	"github.com/fwojciec/repub"
)

// Keyword vocabularies scanned for tag extraction. Matching is
// case-insensitive over title plus body text.
var (
	aiKeywords    = []string{"ai", "人工智能", "机器学习", "深度学习", "大模型", "chatgpt", "gpt", "llm", "神经网络"}
	techKeywords  = []string{"技术", "算法", "编程", "开发", "代码", "软件", "系统", "平台"}
	trendKeywords = []string{"趋势", "发展", "未来", "创新", "突破", "应用", "实践"}
)

// ExtractTags derives tags from the article title and content by keyword
// scan, in vocabulary order, capped at the article tag limit. When nothing
// matches it returns the default tag set, so the result is never empty.
func ExtractTags(content, title string) []string {
	text := strings.ToLower(title + " " + content)

	var tags []string
	for _, keyword := range all(aiKeywords, techKeywords, trendKeywords) {
		if strings.Contains(text, keyword) {
			tags = append(tags, keyword)
		}
	}
	if len(tags) == 0 {
		return repub.DefaultTags()
	}
	if len(tags) > repub.MaxTags {
		tags = tags[:repub.MaxTags]
	}
	return tags
}

func all(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
