package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/storage"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments    *services.CommentController
	mailService *services.MailService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		comments:    services.NewCommentController(storage.NewPostgresStore(db.DB)),
		mailService: services.NewMailService(),
	}
}

// Create 发布评论。成功后把密钥写进匿名台账 cookie，刷新回文章页。
func (h *CommentHandler) Create(c *gin.Context) {
	slug := c.Param("slug")

	var post models.Post
	if err := db.DB.Where("slug = ? AND published = ?", slug, true).First(&post).Error; err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var user *models.User
	if u, exists := c.Get(middleware.CheckUserKey); exists && u != nil {
		user = u.(*models.User)
	}

	body := c.PostForm("comment")
	var parentID *string
	if p := c.PostForm("parent_id"); p != "" {
		parentID = &p
	}

	comment, secret, err := h.comments.Submit(c.Request.Context(), user, post.ID, parentID, body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoginRequired):
			c.Redirect(http.StatusFound, "/login?next=/blog/"+slug)
		case errors.Is(err, services.ErrEmptyComment):
			FlashError(c, "Comment cannot be empty.")
			c.Redirect(http.StatusFound, "/blog/"+slug+"#comments")
		default:
			FlashError(c, "Failed to post comment. Please try again.")
			c.Redirect(http.StatusFound, "/blog/"+slug+"#comments")
		}
		return
	}

	// 记录到台账，之后没登录态也能删自己的评论
	ledgerSession := sessions.DefaultMany(c, services.LedgerCookie)
	services.LedgerRecord(ledgerSession, comment.ID, secret)

	// 回复别人的评论时异步通知对方
	if comment.ParentID != nil {
		go h.notifyParent(comment, &post)
	}

	Flash(c, "Comment posted.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/blog/%s#comment-%s", slug, comment.ID))
}

func (h *CommentHandler) notifyParent(comment *models.Comment, post *models.Post) {
	var parent models.Comment
	if err := db.DB.First(&parent, "id = ?", *comment.ParentID).Error; err != nil {
		return
	}
	// 不通知自己，没邮箱的匿名评论也没法通知
	if parent.Email == "" || parent.Email == comment.Email {
		return
	}
	postLink := fmt.Sprintf("%s/blog/%s#comment-%s", utils.SiteURL(), post.Slug, comment.ID)
	h.mailService.SendCommentNotification(parent.Email, comment.Name, post.Title, comment.Comment, postLink)
}

// Delete 删除评论。身份校验放在服务端：管理员、登录作者、或持有台账密钥。
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID := c.Param("id")
	slug := c.Param("slug")

	var user *models.User
	if u, exists := c.Get(middleware.CheckUserKey); exists && u != nil {
		user = u.(*models.User)
	}

	ledgerSession := sessions.DefaultMany(c, services.LedgerCookie)
	secret := services.LedgerGet(ledgerSession, commentID)

	if err := h.comments.Delete(c.Request.Context(), user, commentID, secret); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			FlashError(c, "Comment not found.")
		case errors.Is(err, services.ErrNotAllowed):
			FlashError(c, "You can only delete your own comments.")
		default:
			FlashError(c, "Failed to delete comment.")
		}
		c.Redirect(http.StatusFound, "/blog/"+slug+"#comments")
		return
	}

	// 台账里对应的条目一并清掉
	services.LedgerRemove(ledgerSession, commentID)

	Flash(c, "Comment deleted.")
	c.Redirect(http.StatusFound, "/blog/"+slug+"#comments")
}
