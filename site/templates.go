package site

// Page templates. Presentation is deliberately minimal; the body markup
// arrives fully normalized from the ingestion pipeline and is embedded
// verbatim.

const indexTemplate = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>文章合集</title>
<link rel="alternate" type="application/rss+xml" href="feed.xml">
</head>
<body>
<header><h1>文章合集</h1></header>
<main>
{{range .Articles}}<section class="card">
<h2><a href="articles/{{.ID}}.html">{{.Title}}</a></h2>
<div class="meta">{{.Source}} · {{.Date}}</div>
<p class="summary">{{.Summary}}</p>
<div class="tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>
</section>
{{end}}</main>
</body>
</html>
`

const articleTemplate = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<article>
<h1>{{.Title}}</h1>
<div class="meta">{{.Source}} · {{.Date}}</div>
<div class="tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>
<div class="content">{{.Body}}</div>
<nav class="actions">
<a href="../index.html">← 返回首页</a>
{{if .OriginalURL}}<a href="{{.OriginalURL}}" target="_blank" rel="noopener">阅读原文</a>{{end}}
</nav>
</article>
</body>
</html>
`
