package services

import (
	"os"
	"strings"

	"inkwell/internal/models"
)

// 管理员身份只有一个裁决点：邮箱与配置地址比对。
// 评论渲染、导航菜单、后台路由守卫都必须经过这里，不允许各处复制常量。

// AdminEmail 配置的管理员邮箱，未配置时返回空串（此时没有任何请求是管理员）
func AdminEmail() string {
	return strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
}

// AdminDisplayName 管理员的对外显示名
func AdminDisplayName() string {
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin"
	}
	return name
}

// IsAdmin 判断邮箱是否为管理员。空的管理员地址永不匹配。
func IsAdmin(email, adminEmail string) bool {
	if adminEmail == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(email), adminEmail)
}

// DisplayName 解析显示名：管理员用配置的固定名字（忽略账号资料），
// 普通用户优先账号资料里的名字，否则取邮箱 @ 前缀。
func DisplayName(user *models.User, adminEmail, adminName string) string {
	if user == nil {
		return ""
	}
	if IsAdmin(user.Email, adminEmail) {
		return adminName
	}
	if user.Name != "" {
		return user.Name
	}
	if at := strings.Index(user.Email, "@"); at > 0 {
		return user.Email[:at]
	}
	return user.Email
}

// CommentBadge 渲染时计算评论的管理员徽标（不落库，按邮箱即时判定），
// 管理员历史评论的显示名也统一替换为配置名。
func CommentBadge(c *models.Comment, adminEmail, adminName string) (name string, isAdmin bool) {
	if IsAdmin(c.Email, adminEmail) {
		return adminName, true
	}
	return c.Name, false
}
