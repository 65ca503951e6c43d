package utils

import (
	"os"
	"strings"
)

// SiteURL 从环境变量获取站点地址，未设置时使用默认值；全站只在这里读取
func SiteURL() string {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}
	return strings.TrimSuffix(siteURL, "/")
}
