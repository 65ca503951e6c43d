package models

import (
	"time"
)

// 站点设置键
const (
	SettingAnnouncement = "announcement" // 顶部滚动公告文本
	SettingSitePopup    = "site_popup"   // 推广弹窗配置(JSON)
)

// Setting 站点设置，key/value 形式
type Setting struct {
	Key       string    `gorm:"primaryKey;size:50" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PopupSettings 推广弹窗配置，整体序列化存入 settings 表
type PopupSettings struct {
	Enabled    bool   `json:"enabled"`
	Image      string `json:"image"`
	Header     string `json:"header"`
	Text       string `json:"text"`
	ButtonText string `json:"button_text,omitempty"`
	ButtonLink string `json:"button_link,omitempty"`
}
