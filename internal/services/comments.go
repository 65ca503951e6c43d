package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrLoginRequired = errors.New("login required to comment")
	ErrEmptyComment  = errors.New("comment body is empty")
	ErrNotAllowed    = errors.New("not allowed to delete this comment")
)

// CommentController 评论的提交、删除与审核。
// 删除授权在服务端完整校验（管理员 / 口令 / 本人），不信任前端的按钮显隐。
type CommentController struct {
	store storage.CommentStore
}

func NewCommentController(store storage.CommentStore) *CommentController {
	return &CommentController{store: store}
}

// List 某篇文章的公开评论（已批准，created_at 升序）
func (cc *CommentController) List(ctx context.Context, postID string) ([]models.Comment, error) {
	return cc.store.ListApproved(ctx, postID)
}

// Submit 发表评论或回复。返回落库后的评论和本次生成的作者口令。
//
// 前置校验不通过时不触碰存储层。显示身份（名字/邮箱/头像）在此刻冻结，
// 之后账号资料变更不回写。approved 直接置 true，公开阅读路径没有待审环节。
func (cc *CommentController) Submit(ctx context.Context, user *models.User, postID string, parentID *string, body string) (*models.Comment, string, error) {
	if user == nil {
		return nil, "", ErrLoginRequired
	}
	if strings.TrimSpace(body) == "" {
		return nil, "", ErrEmptyComment
	}

	secret := uuid.NewString()
	comment := &models.Comment{
		PostID:    postID,
		ParentID:  parentID,
		UserID:    &user.ID,
		Name:      DisplayName(user, AdminEmail(), AdminDisplayName()),
		Email:     user.Email,
		Comment:   body,
		AvatarURL: user.AvatarURL,
		Approved:  true,
		Secret:    secret,
	}

	err := cc.store.Insert(ctx, comment, false)
	if err != nil {
		// 兼容缺少 avatar_url 列的旧部署：省略该列重试，且只重试这一次
		log.Printf("Comment insert failed, retrying without avatar_url: %v", err)
		comment.ID = ""
		if err = cc.store.Insert(ctx, comment, true); err != nil {
			return nil, "", err
		}
	}

	return comment, secret, nil
}

// CanDelete 删除授权：管理员，或持有该评论的作者口令，或评论归属的登录用户
func (cc *CommentController) CanDelete(actor *models.User, c *models.Comment, secret string) bool {
	if actor != nil && IsAdmin(actor.Email, AdminEmail()) {
		return true
	}
	if secret != "" && secret == c.Secret {
		return true
	}
	if actor != nil && c.UserID != nil && *c.UserID == actor.ID {
		return true
	}
	return false
}

// Delete 删除评论。级联只有一层：直接子回复一起删，
// 孙辈评论留在表里成为孤儿，从渲染树中静默消失（沿用既有行为）。
func (cc *CommentController) Delete(ctx context.Context, actor *models.User, commentID, secret string) error {
	comment, err := cc.store.Get(ctx, commentID)
	if err != nil {
		return err
	}

	if !cc.CanDelete(actor, comment, secret) {
		return ErrNotAllowed
	}

	return cc.store.Remove(ctx, commentID)
}

// ListAll 后台审核列表（含待审核评论）
func (cc *CommentController) ListAll(ctx context.Context) ([]models.Comment, error) {
	return cc.store.ListAll(ctx)
}

// SetApproved 后台批准/撤销批准
func (cc *CommentController) SetApproved(ctx context.Context, actor *models.User, id string, approved bool) error {
	if actor == nil || !IsAdmin(actor.Email, AdminEmail()) {
		return ErrNotAllowed
	}
	return cc.store.SetApproved(ctx, id, approved)
}
