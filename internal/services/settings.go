package services

import (
	"encoding/json"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"gorm.io/gorm/clause"
)

// GetSetting 读取站点设置，不存在返回空串
func GetSetting(key string) string {
	var setting models.Setting
	if err := db.DB.First(&setting, "key = ?", key).Error; err != nil {
		return ""
	}
	return setting.Value
}

// SetSetting 写入站点设置（upsert），并清掉设置缓存
func SetSetting(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return err
	}
	utils.GetCache().Delete("settings:" + key)
	return nil
}

func cachedSetting(key string) string {
	cacheKey := "settings:" + key
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if s, ok := cached.(string); ok {
			return s
		}
	}
	value := GetSetting(key)
	utils.GetCache().Set(cacheKey, value, 1*time.Minute)
	return value
}

// Announcement 顶部公告文本，空串表示不展示
func Announcement() string {
	return cachedSetting(models.SettingAnnouncement)
}

// Popup 推广弹窗配置，未启用或未配置返回 nil
func Popup() *models.PopupSettings {
	raw := cachedSetting(models.SettingSitePopup)
	if raw == "" {
		return nil
	}
	var popup models.PopupSettings
	if err := json.Unmarshal([]byte(raw), &popup); err != nil {
		return nil
	}
	if !popup.Enabled {
		return nil
	}
	return &popup
}
