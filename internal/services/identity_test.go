package services

import (
	"testing"

	"inkwell/internal/models"
)

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		email, admin string
		want         bool
	}{
		{"boss@example.com", "boss@example.com", true},
		{"BOSS@Example.COM", "boss@example.com", true},
		{" boss@example.com ", "boss@example.com", true},
		{"other@example.com", "boss@example.com", false},
		// 管理员邮箱未配置时谁都不是管理员
		{"", "", false},
		{"boss@example.com", "", false},
	}
	for _, tc := range cases {
		if got := IsAdmin(tc.email, tc.admin); got != tc.want {
			t.Errorf("IsAdmin(%q, %q) = %v, want %v", tc.email, tc.admin, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	admin := "boss@example.com"

	// 管理员用配置的固定名字，账号资料里的名字被忽略
	u := &models.User{Name: "whatever", Email: "boss@example.com"}
	if got := DisplayName(u, admin, "The Author"); got != "The Author" {
		t.Errorf("Admin display name = %q, want The Author", got)
	}

	// 普通用户优先资料名
	u = &models.User{Name: "ann", Email: "ann@example.com"}
	if got := DisplayName(u, admin, "The Author"); got != "ann" {
		t.Errorf("DisplayName = %q, want ann", got)
	}

	// 没有资料名就取邮箱 @ 前缀
	u = &models.User{Email: "ann@example.com"}
	if got := DisplayName(u, admin, "The Author"); got != "ann" {
		t.Errorf("DisplayName = %q, want ann", got)
	}

	if got := DisplayName(nil, admin, "The Author"); got != "" {
		t.Errorf("DisplayName(nil) = %q, want empty", got)
	}
}

// 管理员徽标按邮箱即时判定，历史评论的显示名统一替换为配置名
func TestCommentBadge(t *testing.T) {
	admin := "boss@example.com"

	c := &models.Comment{Name: "old nickname", Email: "boss@example.com"}
	name, isAdmin := CommentBadge(c, admin, "The Author")
	if !isAdmin || name != "The Author" {
		t.Errorf("Admin comment badge = (%q, %v)", name, isAdmin)
	}

	c = &models.Comment{Name: "ann", Email: "ann@example.com"}
	name, isAdmin = CommentBadge(c, admin, "The Author")
	if isAdmin || name != "ann" {
		t.Errorf("Visitor comment badge = (%q, %v)", name, isAdmin)
	}

	// 未配置管理员邮箱时不会出现徽标
	c = &models.Comment{Name: "x", Email: ""}
	if _, isAdmin = CommentBadge(c, "", "The Author"); isAdmin {
		t.Error("Empty admin email must never grant the badge")
	}
}
