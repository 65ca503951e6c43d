package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // 评论正文保留换行
			html.WithXHTML(),
		),
	)
	commentPolicy = bluemonday.UGCPolicy()
	postPolicy    = bluemonday.UGCPolicy()
)

func init() {
	commentPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	commentPolicy.RequireNoReferrerOnLinks(true)

	// 文章正文是管理员在编辑器里产出的 HTML，策略相对宽松
	postPolicy.AllowImages()
	postPolicy.AllowAttrs("class").Globally()
	postPolicy.AddTargetBlankToFullyQualifiedLinks(true)
}

// RenderComment 将评论正文按 GFM 渲染为安全 HTML
func RenderComment(source string) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source)) // Fallback
	}
	return template.HTML(commentPolicy.SanitizeBytes(buf.Bytes()))
}

// SanitizePostHTML 清洗文章正文 HTML 并增强图片属性
func SanitizePostHTML(source string) template.HTML {
	sanitized := postPolicy.Sanitize(source)
	return EnhanceHTMLContent(sanitized)
}
