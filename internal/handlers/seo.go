package handlers

import (
	"fmt"
	"html"
	"net/http"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type SEOHandler struct{}

func NewSEOHandler() *SEOHandler {
	return &SEOHandler{}
}

// RobotsTxt 返回 robots.txt
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	siteURL := utils.SiteURL()
	content := fmt.Sprintf(`User-agent: *
Allow: /

# Keep crawlers out of account and admin pages
Disallow: /admin/
Disallow: /settings
Disallow: /bookmarks
Disallow: /login
Disallow: /register

# Form endpoints
Disallow: /bookmark/
Disallow: /poll/

Sitemap: %s/sitemap.xml

Crawl-delay: 1
`, siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML 动态生成 sitemap.xml，只收已发布文章
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	siteURL := utils.SiteURL()
	now := time.Now().Format("2006-01-02")

	xml := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`

	xml += fmt.Sprintf(`  <url>
    <loc>%s/</loc>
    <lastmod>%s</lastmod>
    <changefreq>daily</changefreq>
    <priority>1.0</priority>
  </url>
`, siteURL, now)

	xml += fmt.Sprintf(`  <url>
    <loc>%s/search</loc>
    <lastmod>%s</lastmod>
    <changefreq>weekly</changefreq>
    <priority>0.5</priority>
  </url>
`, siteURL, now)

	var posts []models.Post
	db.DB.Where("published = ?", true).Order("created_at DESC").Limit(500).Find(&posts)
	for _, post := range posts {
		lastmod := post.UpdatedAt.Format("2006-01-02")
		// 越新的文章爬得越勤
		daysSinceCreated := time.Since(post.CreatedAt).Hours() / 24
		priority := 0.6
		changefreq := "monthly"

		if daysSinceCreated < 7 {
			priority = 0.8
			changefreq = "daily"
		} else if daysSinceCreated < 30 {
			priority = 0.7
			changefreq = "weekly"
		}

		xml += fmt.Sprintf(`  <url>
    <loc>%s/blog/%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, siteURL, post.Slug, lastmod, changefreq, priority)
	}

	// 标签页
	tagSeen := make(map[string]bool)
	for _, post := range posts {
		for _, tag := range post.TagList() {
			if tagSeen[tag] {
				continue
			}
			tagSeen[tag] = true
			xml += fmt.Sprintf(`  <url>
    <loc>%s/tags/%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>weekly</changefreq>
    <priority>0.5</priority>
  </url>
`, siteURL, tag, now)
		}
	}

	xml += `</urlset>`

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, xml)
}

// RSSFeed 生成 RSS 2.0 feed，最新 20 篇
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	siteURL := utils.SiteURL()
	now := time.Now()
	author := escapeXML(services.AdminDisplayName())

	var posts []models.Post
	db.DB.Where("published = ?", true).Order("created_at DESC").Limit(20).Find(&posts)

	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>Inkwell</title>
    <link>` + siteURL + `</link>
    <description>Essays and notes on software, writing and whatever else catches my eye.</description>
    <language>en</language>
    <lastBuildDate>` + now.Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + siteURL + `/feed.xml" rel="self" type="application/rss+xml"/>
`

	for _, post := range posts {
		link := fmt.Sprintf("%s/blog/%s", siteURL, post.Slug)

		description := post.Excerpt
		if description == "" {
			description = utils.AutoExcerpt(post.Content, 150)
		}
		description += fmt.Sprintf(` <a href="%s">Read the full post →</a>`, link)

		rss += `    <item>
      <title>` + escapeXML(post.Title) + `</title>
      <link>` + link + `</link>
      <description><![CDATA[` + description + `]]></description>
      <author>` + author + `</author>
`
		for _, tag := range post.TagList() {
			rss += `      <category>` + escapeXML(tag) + `</category>
`
		}
		rss += `      <pubDate>` + post.CreatedAt.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + link + `</guid>
    </item>
`
	}

	rss += `  </channel>
</rss>`

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, rss)
}

// escapeXML 转义 XML 特殊字符
func escapeXML(s string) string {
	return html.EscapeString(s)
}
