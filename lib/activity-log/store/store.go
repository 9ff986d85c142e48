package activitylogstore

import (
	dbmodels "creative-tools-backend/models/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// журнал только дополняется, операций изменения и удаления нет
type Provider interface {
	Create(rec dbmodels.ActivityLog) (id string, err error)
	ListByJob(spaceID, jobID string) (list []dbmodels.ActivityLog, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ActivityLog) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListByJob(spaceID, jobID string) (list []dbmodels.ActivityLog, err error) {
	list = []dbmodels.ActivityLog{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("job_id = ?", jobID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
