package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/storage"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	comments *services.CommentController
}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{
		comments: services.NewCommentController(storage.NewPostgresStore(db.DB)),
	}
}

// Dashboard 后台首页：核心统计数字
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var postCount, draftCount, commentCount, pendingCount, userCount, bookmarkCount int64
	db.DB.Model(&models.Post{}).Where("published = ?", true).Count(&postCount)
	db.DB.Model(&models.Post{}).Where("published = ?", false).Count(&draftCount)
	db.DB.Model(&models.Comment{}).Count(&commentCount)
	db.DB.Model(&models.Comment{}).Where("approved = ?", false).Count(&pendingCount)
	db.DB.Model(&models.User{}).Count(&userCount)
	db.DB.Model(&models.Bookmark{}).Count(&bookmarkCount)

	var totalViews int64
	db.DB.Model(&models.Post{}).Select("COALESCE(SUM(view_count), 0)").Scan(&totalViews)

	// 最近评论
	var recentComments []models.Comment
	db.DB.Order("created_at DESC").Limit(10).Find(&recentComments)

	Render(c, http.StatusOK, "admin/dashboard.html", gin.H{
		"Title":          "Dashboard",
		"PostCount":      postCount,
		"DraftCount":     draftCount,
		"CommentCount":   commentCount,
		"PendingCount":   pendingCount,
		"UserCount":      userCount,
		"BookmarkCount":  bookmarkCount,
		"TotalViews":     totalViews,
		"TotalVisitors":  services.TotalVisitors(),
		"RecentComments": recentComments,
	})
}

// ListPosts 文章管理列表，含草稿
func (h *AdminHandler) ListPosts(c *gin.Context) {
	var posts []models.Post
	db.DB.Order("created_at DESC").Find(&posts)
	fillCommentCounts(posts)

	Render(c, http.StatusOK, "admin/posts.html", gin.H{
		"Title": "Posts",
		"Posts": posts,
	})
}

func (h *AdminHandler) ShowCreatePost(c *gin.Context) {
	Render(c, http.StatusOK, "admin/post_edit.html", gin.H{
		"Title": "New post",
		"Post":  models.Post{},
	})
}

func (h *AdminHandler) ShowEditPost(c *gin.Context) {
	id := c.Param("id")

	var post models.Post
	if err := db.DB.Where("id = ?", id).First(&post).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	var poll models.Poll
	hasPoll := db.DB.Where("post_id = ?", post.ID).First(&poll).Error == nil

	Render(c, http.StatusOK, "admin/post_edit.html", gin.H{
		"Title":   "Edit post",
		"Post":    post,
		"HasPoll": hasPoll,
		"Poll":    poll,
	})
}

// postFromForm 读取编辑表单，slug 和摘要留空时自动生成
func (h *AdminHandler) postFromForm(c *gin.Context, post *models.Post) error {
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		return errors.New("title cannot be empty")
	}

	content := c.PostForm("content")
	slug := strings.TrimSpace(c.PostForm("slug"))
	if slug == "" {
		slug = utils.Slugify(title)
	} else {
		slug = utils.Slugify(slug)
	}
	if slug == "" {
		return errors.New("could not derive a slug from the title")
	}

	excerpt := strings.TrimSpace(c.PostForm("excerpt"))
	if excerpt == "" {
		excerpt = utils.AutoExcerpt(content, 150)
	}

	post.Title = title
	post.Slug = slug
	post.Content = content
	post.Excerpt = excerpt
	post.FeaturedImage = strings.TrimSpace(c.PostForm("featured_image"))
	post.Tags = utils.NormalizeTags(c.PostForm("tags"))
	post.Published = c.PostForm("published") == "on" || c.PostForm("published") == "true"

	// 自定义发布日期，留空就用原值
	if raw := strings.TrimSpace(c.PostForm("published_at")); raw != "" {
		if t, err := time.Parse("2006-01-02T15:04", raw); err == nil {
			post.CreatedAt = t
		} else {
			return errors.New("invalid publish date")
		}
	}
	return nil
}

func (h *AdminHandler) CreatePost(c *gin.Context) {
	var post models.Post
	if err := h.postFromForm(c, &post); err != nil {
		Render(c, http.StatusBadRequest, "admin/post_edit.html", gin.H{
			"Title": "New post",
			"Post":  post,
			"Error": err.Error(),
		})
		return
	}

	if err := db.DB.Create(&post).Error; err != nil {
		Render(c, http.StatusConflict, "admin/post_edit.html", gin.H{
			"Title": "New post",
			"Post":  post,
			"Error": "Failed to save. The slug may already be in use.",
		})
		return
	}

	h.invalidateListCaches()
	c.Redirect(http.StatusFound, "/admin/posts")
}

func (h *AdminHandler) UpdatePost(c *gin.Context) {
	id := c.Param("id")

	var post models.Post
	if err := db.DB.Where("id = ?", id).First(&post).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	if err := h.postFromForm(c, &post); err != nil {
		Render(c, http.StatusBadRequest, "admin/post_edit.html", gin.H{
			"Title": "Edit post",
			"Post":  post,
			"Error": err.Error(),
		})
		return
	}

	if err := db.DB.Save(&post).Error; err != nil {
		Render(c, http.StatusConflict, "admin/post_edit.html", gin.H{
			"Title": "Edit post",
			"Post":  post,
			"Error": "Failed to save. The slug may already be in use.",
		})
		return
	}

	h.invalidateListCaches()
	c.Redirect(http.StatusFound, "/admin/posts")
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	id := c.Param("id")

	var post models.Post
	if err := db.DB.Where("id = ?", id).First(&post).Error; err != nil {
		c.Redirect(http.StatusFound, "/admin/posts")
		return
	}

	// 文章下的评论、投票、收藏一并清掉
	db.DB.Where("post_id = ?", post.ID).Delete(&models.Comment{})
	db.DB.Where("post_id = ?", post.ID).Delete(&models.Bookmark{})
	var poll models.Poll
	if err := db.DB.Where("post_id = ?", post.ID).First(&poll).Error; err == nil {
		db.DB.Where("poll_id = ?", poll.ID).Delete(&models.PollVote{})
		db.DB.Delete(&poll)
	}
	db.DB.Delete(&post)

	h.invalidateListCaches()
	Flash(c, "Post deleted.")
	c.Redirect(http.StatusFound, "/admin/posts")
}

func (h *AdminHandler) invalidateListCaches() {
	// 直接清空，列表缓存的键带页码不好逐个删
	utils.GetCache().Purge()
}

// ListComments 评论审核列表
func (h *AdminHandler) ListComments(c *gin.Context) {
	comments, err := h.comments.ListAll(c.Request.Context())
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load comments")
		return
	}

	// 评论所属文章的标题，方便跳转
	titleMap := make(map[string]string)
	if len(comments) > 0 {
		ids := make([]string, 0, len(comments))
		seen := make(map[string]bool)
		for _, cm := range comments {
			if !seen[cm.PostID] {
				seen[cm.PostID] = true
				ids = append(ids, cm.PostID)
			}
		}
		var posts []models.Post
		db.DB.Select("id, title, slug").Where("id IN ?", ids).Find(&posts)
		for _, p := range posts {
			titleMap[p.ID] = p.Title
		}
	}

	Render(c, http.StatusOK, "admin/comments.html", gin.H{
		"Title":      "Comments",
		"Comments":   comments,
		"PostTitles": titleMap,
	})
}

// SetCommentApproved 切换评论审核状态
func (h *AdminHandler) SetCommentApproved(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")
	approved := c.PostForm("approved") == "true"

	if err := h.comments.SetApproved(c.Request.Context(), user, id, approved); err != nil {
		FlashError(c, "Failed to update comment.")
	}
	c.Redirect(http.StatusFound, "/admin/comments")
}

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	if err := h.comments.Delete(c.Request.Context(), user, id, ""); err != nil {
		FlashError(c, "Failed to delete comment.")
	} else {
		Flash(c, "Comment deleted.")
	}
	c.Redirect(http.StatusFound, "/admin/comments")
}

// SavePoll 创建或更新文章的投票，选项一行一个
func (h *AdminHandler) SavePoll(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := db.DB.Where("id = ?", postID).First(&post).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	question := strings.TrimSpace(c.PostForm("question"))
	placement := c.PostForm("placement")
	if placement != models.PollPlacementTop && placement != models.PollPlacementMiddle {
		placement = models.PollPlacementBottom
	}

	var options []models.PollOption
	for _, line := range strings.Split(c.PostForm("options"), "\n") {
		text := strings.TrimSpace(line)
		if text != "" {
			options = append(options, models.PollOption{ID: uuid.NewString(), Text: text})
		}
	}

	if question == "" || len(options) < 2 {
		FlashError(c, "A poll needs a question and at least two options.")
		c.Redirect(http.StatusFound, fmt.Sprintf("/admin/posts/%s/edit", postID))
		return
	}

	optionsJSON, _ := json.Marshal(options)

	var poll models.Poll
	if err := db.DB.Where("post_id = ?", post.ID).First(&poll).Error; err == nil {
		// 改了题目或选项，旧票作废
		db.DB.Where("poll_id = ?", poll.ID).Delete(&models.PollVote{})
		poll.Question = question
		poll.Options = string(optionsJSON)
		poll.Placement = placement
		db.DB.Save(&poll)
	} else {
		poll = models.Poll{
			PostID:    post.ID,
			Question:  question,
			Options:   string(optionsJSON),
			Placement: placement,
		}
		db.DB.Create(&poll)
	}

	Flash(c, "Poll saved.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/admin/posts/%s/edit", postID))
}

func (h *AdminHandler) DeletePoll(c *gin.Context) {
	postID := c.Param("id")

	var poll models.Poll
	if err := db.DB.Where("post_id = ?", postID).First(&poll).Error; err == nil {
		db.DB.Where("poll_id = ?", poll.ID).Delete(&models.PollVote{})
		db.DB.Delete(&poll)
		Flash(c, "Poll removed.")
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/admin/posts/%s/edit", postID))
}

// ShowSettings 站点设置：公告条和推广弹窗
func (h *AdminHandler) ShowSettings(c *gin.Context) {
	// 这里不走 services.Popup()，停用状态下也要能编辑已保存的内容
	var popup *models.PopupSettings
	if raw := services.GetSetting(models.SettingSitePopup); raw != "" {
		var p models.PopupSettings
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			popup = &p
		}
	}

	Render(c, http.StatusOK, "admin/settings.html", gin.H{
		"Title":        "Site settings",
		"Announcement": services.GetSetting(models.SettingAnnouncement),
		"Popup":        popup,
	})
}

func (h *AdminHandler) SaveSettings(c *gin.Context) {
	announcement := strings.TrimSpace(c.PostForm("announcement"))
	if err := services.SetSetting(models.SettingAnnouncement, announcement); err != nil {
		FlashError(c, "Failed to save settings.")
		c.Redirect(http.StatusFound, "/admin/settings")
		return
	}

	popup := models.PopupSettings{
		Enabled:    c.PostForm("popup_enabled") == "on" || c.PostForm("popup_enabled") == "true",
		Image:      strings.TrimSpace(c.PostForm("popup_image")),
		Header:     strings.TrimSpace(c.PostForm("popup_header")),
		Text:       c.PostForm("popup_text"),
		ButtonText: strings.TrimSpace(c.PostForm("popup_button_text")),
		ButtonLink: strings.TrimSpace(c.PostForm("popup_button_link")),
	}
	popupJSON, _ := json.Marshal(popup)
	if err := services.SetSetting(models.SettingSitePopup, string(popupJSON)); err != nil {
		FlashError(c, "Failed to save settings.")
		c.Redirect(http.StatusFound, "/admin/settings")
		return
	}

	Flash(c, "Settings saved.")
	c.Redirect(http.StatusFound, "/admin/settings")
}
