package pushsettingsstore

import (
	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.PushSetting) error
	Update(spaceID, userID string, code models.SpacePushSettingCode, updMap map[string]interface{}) error
	List(spaceID, userID string) (settingsList []dbmodels.PushSetting, err error)
	// GetByCode nil — настройки нет, событие считается включённым
	GetByCode(userID string, code models.SpacePushSettingCode) (rec *dbmodels.PushSetting, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PushSetting) error {
	return i.db.
		Save(&rec).
		Error
}

func (i impl) Update(spaceID, userID string, code models.SpacePushSettingCode, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.PushSetting{}).
		Where("space_id = ?", spaceID).
		Where("space_user_id = ?", userID).
		Where("code = ?", code).
		Updates(updMap).
		Error
}

func (i impl) List(spaceID, userID string) (settingsList []dbmodels.PushSetting, err error) {
	tx := i.db.Model(dbmodels.PushSetting{})
	err = tx.
		Where("space_id = ?", spaceID).
		Where("space_user_id = ?", userID).
		Find(&settingsList).
		Error
	if err != nil {
		return nil, err
	}
	return settingsList, nil
}

func (i impl) GetByCode(userID string, code models.SpacePushSettingCode) (rec *dbmodels.PushSetting, err error) {
	err = i.db.Model(dbmodels.PushSetting{}).
		Where("space_user_id = ?", userID).
		Where("code = ?", code).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}
