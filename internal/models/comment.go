package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID       string  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID   string  `gorm:"type:uuid;not null;index" json:"post_id"`
	Post     Post    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	ParentID *string `gorm:"type:uuid;index" json:"parent_id"` // 顶级评论为 null
	UserID   *uint   `gorm:"index" json:"user_id"`             // 历史匿名评论为 null
	// 发布时刻的显示身份，落库后不再跟随账号变化
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Comment   string    `gorm:"type:text;not null" json:"comment"` // 保留原始空白
	AvatarURL string    `json:"avatar_url"`
	Approved  bool      `gorm:"default:false;index" json:"approved"`
	Secret    string    `gorm:"column:user_secret;size:36" json:"-"` // 匿名作者删除授权口令
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	// 评论无 UpdatedAt：内容发出后不可编辑
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsReply 是否为回复（parent_id 非空）
func (c *Comment) IsReply() bool {
	return c.ParentID != nil && *c.ParentID != ""
}
