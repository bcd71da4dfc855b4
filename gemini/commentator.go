// Package gemini provides a Google Gemini implementation of repub.Commentator.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/repub"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// maxDocumentRunes caps how much extracted text is sent per request.
// Long PDFs are truncated; the opening pages carry the framing anyway.
const maxDocumentRunes = 30000

// Ensure Commentator implements repub.Commentator at compile time.
var _ repub.Commentator = (*Commentator)(nil)

// Commentator generates Chinese-language commentary for uploaded documents
// using Google Gemini.
type Commentator struct {
	client *genai.Client
}

// NewCommentator creates a new Commentator.
func NewCommentator(client *genai.Client) *Commentator {
	return &Commentator{client: client}
}

// Comment produces commentary HTML for the given document text. The result
// contains overview, analysis and key point sections as an HTML fragment.
func (c *Commentator) Comment(ctx context.Context, title, text string) (string, error) {
	if text == "" {
		return "", repub.Errorf(repub.EINVALID, "document text required")
	}

	prompt := BuildUserPrompt(title, text)
	config := BuildConfig()

	result, err := c.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", repub.Errorf(repub.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return "", repub.Errorf(repub.EINTERNAL, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "你是一位技术文档解读专家。根据提供的文档内容，生成一篇中文解读文章的正文片段。" +
					"输出必须是 HTML 片段，依次包含三个部分：<h2>📄 文档概述</h2> 后接一段概述，" +
					"<h2>🔍 深度分析</h2> 后接一段分析，<h2>📋 核心要点</h2> 后接一个 <ul> 要点列表。" +
					"只依据文档内容作答，不要输出 HTML 片段以外的任何文字。",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the document text.
func BuildUserPrompt(title, text string) string {
	runes := []rune(text)
	if len(runes) > maxDocumentRunes {
		text = string(runes[:maxDocumentRunes])
	}

	var sb strings.Builder
	sb.WriteString("<document>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", title)
	fmt.Fprintf(&sb, "<content>%s</content>\n", text)
	sb.WriteString("</document>\n\n")
	sb.WriteString("请为以上文档生成解读文章片段。")
	return sb.String()
}
