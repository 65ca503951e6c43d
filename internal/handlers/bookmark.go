package handlers

import (
	"net/http"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct{}

func NewBookmarkHandler() *BookmarkHandler {
	return &BookmarkHandler{}
}

// Toggle 切换收藏状态 - 收藏/取消收藏，处理完回到来源页
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	user, exists := c.Get(middleware.CheckUserKey)
	if !exists || user == nil {
		c.Redirect(http.StatusFound, "/login?next="+c.PostForm("next"))
		return
	}
	currentUser := user.(*models.User)

	postID := c.Param("id")

	var post models.Post
	if err := db.DB.Where("id = ? AND published = ?", postID, true).First(&post).Error; err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var existing models.Bookmark
	if err := db.DB.Where("user_id = ? AND post_id = ?", currentUser.ID, post.ID).First(&existing).Error; err == nil {
		// 已收藏，取消收藏
		db.DB.Delete(&existing)
		Flash(c, "Removed from your reading list.")
	} else {
		bookmark := models.Bookmark{
			UserID: currentUser.ID,
			PostID: post.ID,
		}
		db.DB.Create(&bookmark)
		Flash(c, "Saved to your reading list.")
	}

	next := c.PostForm("next")
	if next == "" {
		next = "/blog/" + post.Slug
	}
	c.Redirect(http.StatusFound, next)
}

// IsBookmarked 检查用户是否已收藏某文章
func IsBookmarked(userID uint, postID string) bool {
	var bookmark models.Bookmark
	if err := db.DB.Where("user_id = ? AND post_id = ?", userID, postID).First(&bookmark).Error; err == nil {
		return true
	}
	return false
}
