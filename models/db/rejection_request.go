package dbmodels

import (
	"time"

	"creative-tools-backend/models"

	"github.com/lib/pq"
)

// RejectionRequest запрос исполнителя на отказ от работы,
// не более одного pending запроса на работу
type RejectionRequest struct {
	BaseSpaceModel
	JobID       string `gorm:"type:varchar(36);index"`
	Job         *Job
	RequesterID string     `gorm:"type:varchar(36)"`
	Requester   *SpaceUser `gorm:"foreignKey:RequesterID"`
	Reason      string
	ApproverIDs pq.StringArray         `gorm:"type:text[]"`
	Quorum      models.QuorumRule      `gorm:"type:varchar(10)"`
	Status      models.RejectionStatus `gorm:"type:varchar(20);index"`
	AutoCloseAt time.Time              `gorm:"index"`
	DecidedBy   *string                `gorm:"type:varchar(36)"` // пусто при авто-согласовании
	DecidedAt   *time.Time
	Comment     string
}
