package handlers

import (
	"net/http"
	"strings"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

func (h *UserHandler) ShowSettings(c *gin.Context) {
	Render(c, http.StatusOK, "user/settings.html", gin.H{"Title": "Settings"})
}

// UpdateProfile 更新昵称和头像地址
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	name := strings.TrimSpace(c.PostForm("name"))
	avatarURL := strings.TrimSpace(c.PostForm("avatar_url"))

	if name == "" {
		Render(c, http.StatusBadRequest, "user/settings.html", gin.H{"Error": "Name cannot be empty.", "Title": "Settings"})
		return
	}

	user.Name = name
	user.AvatarURL = avatarURL
	if err := db.DB.Save(user).Error; err != nil {
		Render(c, http.StatusInternalServerError, "user/settings.html", gin.H{"Error": "Failed to save profile.", "Title": "Settings"})
		return
	}

	Render(c, http.StatusOK, "user/settings.html", gin.H{"Success": "Profile updated.", "Title": "Settings"})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	oldPassword := c.PostForm("old_password")
	newPassword := c.PostForm("new_password")

	if !utils.CheckPasswordHash(oldPassword, user.Password) {
		Render(c, http.StatusBadRequest, "user/settings.html", gin.H{"Error": "Current password is incorrect.", "Title": "Settings"})
		return
	}

	if len(newPassword) < 6 {
		Render(c, http.StatusBadRequest, "user/settings.html", gin.H{"Error": "Password must be at least 6 characters.", "Title": "Settings"})
		return
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		Render(c, http.StatusInternalServerError, "user/settings.html", gin.H{"Error": "Failed to change password.", "Title": "Settings"})
		return
	}

	user.Password = hash
	db.DB.Save(user)

	Render(c, http.StatusOK, "user/settings.html", gin.H{"Success": "Password changed.", "Title": "Settings"})
}

// Bookmarks 我的阅读清单
func (h *UserHandler) Bookmarks(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var bookmarks []models.Bookmark
	db.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&bookmarks)

	// 收藏的文章可能已转回草稿或被删除，跳过拿不到的
	var posts []models.Post
	if len(bookmarks) > 0 {
		postIDs := make([]string, len(bookmarks))
		for i, b := range bookmarks {
			postIDs[i] = b.PostID
		}
		db.DB.Where("id IN ? AND published = ?", postIDs, true).Find(&posts)

		// 按收藏时间排序
		byID := make(map[string]models.Post, len(posts))
		for _, p := range posts {
			byID[p.ID] = p
		}
		ordered := make([]models.Post, 0, len(posts))
		for _, b := range bookmarks {
			if p, ok := byID[b.PostID]; ok {
				ordered = append(ordered, p)
			}
		}
		posts = ordered
	}

	fillCommentCounts(posts)

	Render(c, http.StatusOK, "user/bookmarks.html", gin.H{
		"Posts": posts,
		"Title": "Reading list",
	})
}
