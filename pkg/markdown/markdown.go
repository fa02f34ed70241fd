// Package markdown renders note content to sanitized HTML
// Package markdown 将笔记内容转换为安全的 HTML
package markdown

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// ToHTML converts markdown to HTML and strips anything the UGC policy does not allow.
// ToHTML 将 Markdown 转换为 HTML 并做 XSS 过滤
func ToHTML(s string) template.HTML {
	// parser 不可复用，每次新建
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(s))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})

	return template.HTML(policy.SanitizeBytes(markdown.Render(doc, renderer)))
}
