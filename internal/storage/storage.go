package storage

import (
	"context"
	"errors"

	"inkwell/internal/models"
)

var ErrNotFound = errors.New("comment not found")

// CommentStore 评论存储适配器。业务逻辑（提交/删除/审核）全部走这个接口，
// 生产环境用 Postgres 实现，测试用内存实现。
type CommentStore interface {
	// ListApproved 返回某篇文章已批准的评论，按 created_at 升序。
	// 树的展示顺序完全由这里的 ORDER BY 决定。
	ListApproved(ctx context.Context, postID string) ([]models.Comment, error)

	// ListAll 返回全部评论（含待审核），新的在前，供后台审核列表使用
	ListAll(ctx context.Context) ([]models.Comment, error)

	Get(ctx context.Context, id string) (*models.Comment, error)

	// Insert 写入一条评论。omitAvatar 为 true 时不写 avatar_url 列，
	// 用于兼容缺少该列的旧部署（见 CommentController.Submit 的一次性重试）。
	Insert(ctx context.Context, c *models.Comment, omitAvatar bool) error

	SetApproved(ctx context.Context, id string, approved bool) error

	// Remove 删除评论及其直接子回复（只级联一层）。
	// 孙辈评论保留在表里，parent_id 悬空后自然从可见树中消失。
	Remove(ctx context.Context, id string) error
}
