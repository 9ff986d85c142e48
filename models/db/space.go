package dbmodels

import "time"

// Space рабочее пространство студии (арендатор)
type Space struct {
	BaseModel
	Name             string `gorm:"type:varchar(255)"`
	Logo             string `gorm:"type:varchar(50)"`
	OrganizationName string `gorm:"type:varchar(255)"` // Юридическое название компании
	IsActive         bool
	StartPay         time.Time
	StopPay          time.Time
	Users            []SpaceUser `gorm:"foreignKey:SpaceID"`
}
