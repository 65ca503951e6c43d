package utils

import (
	"strings"
	"unicode"
)

// Slugify 由标题生成 URL slug：小写，非字母数字合并为单个连字符，去掉首尾连字符
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // 抑制开头的连字符
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// AutoExcerpt 文章未填摘要时自动生成：去标签后截取前 n 个字符
func AutoExcerpt(contentHTML string, n int) string {
	text := StripHTML(contentHTML)
	text = strings.Join(strings.Fields(text), " ") // 压缩空白
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// NormalizeTags 清洗逗号分隔的标签输入："Go, Web ,," -> "go,web"
func NormalizeTags(input string) string {
	var tags []string
	seen := make(map[string]bool)
	for _, t := range strings.Split(input, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return strings.Join(tags, ",")
}
