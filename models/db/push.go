package dbmodels

import "creative-tools-backend/models"

// PushSetting настройка уведомлений пользователя по коду события
type PushSetting struct {
	BaseSpaceModel
	SpaceUserID string                      `gorm:"type:varchar(36);index"`
	Code        models.SpacePushSettingCode `gorm:"type:varchar(100)"`
	SystemValue *bool
	EmailValue  *bool
}

// PushData отложенное событие для пользователя без активного ws соединения
type PushData struct {
	BaseSpaceModel
	SpaceUserID string                      `gorm:"type:varchar(36);index"`
	Code        models.SpacePushSettingCode `gorm:"type:varchar(100)"`
	Title       string                      `gorm:"type:varchar(255)"`
	Msg         string
}
