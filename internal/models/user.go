package models

import (
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"` // 显示名，可修改
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // Hash
	AvatarURL   string    `json:"avatar_url"`        // 头像图片地址，可为空
	IsActivated bool      `gorm:"default:false" json:"is_activated"`
	VerifyCode  string    `gorm:"size:20" json:"-"` // 验证码(激活/重置通用)
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// 管理员身份不落库，由邮箱与配置的管理员地址比对得出（见 services/identity）
}
