package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Slug          string    `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt       string    `gorm:"type:text" json:"excerpt"`
	Content       string    `gorm:"type:text" json:"content"` // 管理端富文本编辑器产出的 HTML
	Published     bool      `gorm:"default:false;index" json:"published"`
	FeaturedImage string    `json:"featured_image"`
	ViewCount     int       `gorm:"default:0" json:"view_count"`
	Tags          string    `json:"tags"` // 逗号分隔，如 "go,web,notes"
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 非数据库字段，用于查询时填充
	CommentCount int `gorm:"-" json:"comment_count"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TagList 拆分逗号分隔的标签串，跳过空项
func (p *Post) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(p.Tags, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
