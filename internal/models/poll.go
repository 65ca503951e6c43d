package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 投票组件在文章中的插入位置
const (
	PollPlacementTop    = "top"
	PollPlacementMiddle = "middle"
	PollPlacementBottom = "bottom"
)

type PollOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Poll struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	Question  string    `gorm:"not null" json:"question"`
	Options   string    `gorm:"type:text;not null" json:"options"` // JSON: []PollOption
	Placement string    `gorm:"size:10;default:'bottom'" json:"placement"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// OptionList 解析 Options JSON，解析失败返回空列表
func (p *Poll) OptionList() []PollOption {
	var opts []PollOption
	if err := json.Unmarshal([]byte(p.Options), &opts); err != nil {
		return nil
	}
	return opts
}

type PollVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_poll_user" json:"poll_id"`
	Poll      Poll      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"poll"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_poll_user" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	OptionID  string    `gorm:"not null" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}
