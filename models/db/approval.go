package dbmodels

import (
	"time"

	"creative-tools-backend/models"
)

// Approval попытка согласования работы на этапе, не более одной pending записи
// на пару (работа, этап)
type Approval struct {
	BaseSpaceModel
	JobID      string `gorm:"type:varchar(36);index"`
	Level      int
	ApproverID string     `gorm:"type:varchar(36)"`
	Approver   *SpaceUser `gorm:"foreignKey:ApproverID"`
	Status     models.ApprovalStatus `gorm:"type:varchar(20)"`
	Comment    string
	IP         string `gorm:"type:varchar(45)"`
	UserAgent  string `gorm:"type:varchar(512)"`
	DecidedAt  *time.Time
}
