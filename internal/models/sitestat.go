package models

import (
	"time"
)

// SiteStat 全站访客统计，单行表（id 固定为 1）
type SiteStat struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TotalVisitors int64     `gorm:"default:0" json:"total_visitors"`
	UpdatedAt     time.Time `json:"updated_at"`
}
