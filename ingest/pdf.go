package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/repub"
	"github.com/microcosm-cc/bluemonday"
)

// PDFIDPrefix namespaces ids of document-derived articles.
const PDFIDPrefix = "pdf-"

// PDFSource is the source label for document-derived articles.
const PDFSource = "PDF文档解读"

// pdfIDLength is the number of hash hex digits kept in the article id.
const pdfIDLength = 12

func pdfTags() []string {
	return []string{"PDF解读", "文档分析", "AI解读"}
}

// commentaryPolicy sanitizes generated commentary before it is embedded in
// the article body. The commentary service is an external dependency, so
// its output is treated as untrusted markup.
var commentaryPolicy = bluemonday.UGCPolicy()

// PDFArticleID derives the stable article id from the document content: a
// namespaced hash truncated to a fixed length. Re-ingesting an unchanged
// file always yields the same id.
func PDFArticleID(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", repub.Errorf(repub.EINVALID, "reading %s: %v", filePath, err)
	}
	sum := fmt.Sprintf("%016x", xxhash.Sum64(data))
	return PDFIDPrefix + sum[:pdfIDLength], nil
}

// IngestPDF reads an uploaded PDF, generates commentary for it and upserts
// the synthesized article. A failed or timed-out commentary call degrades
// to a deterministic templated analysis; only an unsupported file type, a
// failed text extraction or a store persistence failure surface as errors.
func (p *Pipeline) IngestPDF(ctx context.Context, filePath string, opts Options) (*repub.Article, error) {
	if !strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		return nil, repub.Errorf(repub.EUNSUPPORTED, "unsupported file type %q: only PDF documents can be ingested", filepath.Ext(filePath))
	}

	id, err := PDFArticleID(filePath)
	if err != nil {
		return nil, err
	}

	text, err := p.Documents.ExtractText(filePath)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, repub.Errorf(repub.EINVALID, "document %s has no extractable text", filepath.Base(filePath))
	}

	name := filepath.Base(filePath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	title := "PDF文档解读 - " + stem
	if opts.Title != "" {
		title = opts.Title
	}

	commentary := p.commentary(ctx, title, text)

	a := &repub.Article{
		ID:      id,
		Title:   title,
		Source:  PDFSource,
		Summary: FallbackSummary(text),
		URL:     path.Join(repub.UploadRoot, name),
		Date:    p.ingestDate(ctx, id),
		Tags:    pdfTags(),
		Content: synthesizeBody(commentary, name),
	}
	applyOptions(a, opts)
	a.Normalize()

	if err := p.Articles.UpsertArticle(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// commentary obtains the analysis sections from the commentary service,
// falling back to the deterministic template on any failure.
func (p *Pipeline) commentary(ctx context.Context, title, text string) string {
	if p.Commentator == nil {
		return FallbackCommentary(text)
	}

	timeout := p.CommentaryTimeout
	if timeout <= 0 {
		timeout = DefaultCommentaryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := p.Commentator.Comment(ctx, title, text)
	if err != nil || strings.TrimSpace(out) == "" {
		p.log().Warn("commentary generation failed, using templated fallback", slog.Any("err", err))
		return FallbackCommentary(text)
	}
	return commentaryPolicy.Sanitize(out)
}

// synthesizeBody assembles the article body: commentary sections, a closing
// note and a download link to the original document. The link is stored
// relative to the site root, like every other stored path; the materializer
// adjusts it for page depth.
func synthesizeBody(commentary, fileName string) string {
	var sb strings.Builder
	sb.WriteString(commentary)
	sb.WriteString("\n<h2>💡 总结与建议</h2>\n")
	sb.WriteString("<p>本文档内容丰富，涵盖了多个重要方面。建议读者重点关注核心要点部分，并结合实际情况进行应用。</p>\n")
	sb.WriteString(`<div class="download-section"><h3>📥 原始文档下载</h3><p>如需查看完整内容，请下载原始PDF文档：</p>`)
	fmt.Fprintf(&sb, `<a href="%s" class="download-link" target="_blank" rel="noopener">下载PDF文档</a></div>`, path.Join(repub.UploadRoot, fileName))
	return sb.String()
}

// FallbackSummary derives a summary from the opening sentences of the
// document text, mirroring the templated commentary.
func FallbackSummary(text string) string {
	sentences := splitSentences(text)
	if len(sentences) > 3 {
		return strings.Join(sentences[:3], "。") + "。"
	}
	return repub.Summarize(text)
}

// FallbackCommentary builds the deterministic analysis sections used when
// the commentary service is unavailable: an overview from the opening
// sentences, a statistical analysis paragraph and a key point list.
func FallbackCommentary(text string) string {
	var sb strings.Builder

	sb.WriteString("<h2>📄 文档概述</h2>\n")
	fmt.Fprintf(&sb, "<p>%s</p>\n", FallbackSummary(text))

	sentences := splitSentences(text)
	sb.WriteString("<h2>🔍 深度分析</h2>\n")
	fmt.Fprintf(&sb, "<p>本文档共包含约%d个字符，%d个句子。文档内容结构清晰，信息密度较高，适合进行深入学习和研究。建议读者按照章节顺序阅读，重点关注核心概念和关键数据。</p>\n", len([]rune(text)), len(sentences))

	sb.WriteString("<h2>📋 核心要点</h2>\n<ul>\n")
	for _, point := range keyPoints(sentences) {
		fmt.Fprintf(&sb, "<li>%s</li>\n", point)
	}
	sb.WriteString("</ul>")
	return sb.String()
}

// keyPoints picks up to five substantial sentences from the opening of the
// document.
func keyPoints(sentences []string) []string {
	var points []string
	limit := len(sentences)
	if limit > 10 {
		limit = 10
	}
	for _, s := range sentences[:limit] {
		if len([]rune(s)) > 20 {
			points = append(points, s)
		}
		if len(points) == 5 {
			break
		}
	}
	if len(points) == 0 && len(sentences) > 0 {
		points = append(points, sentences[0])
	}
	return points
}

func splitSentences(text string) []string {
	var sentences []string
	for _, s := range strings.Split(text, "。") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
