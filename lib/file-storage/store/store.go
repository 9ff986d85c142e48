package jobfilestore

import (
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Save(rec dbmodels.JobFile) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.JobFile, err error)
	ListByJob(spaceID, jobID string) (list []dbmodels.JobFile, err error)
	Delete(spaceID, id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Save(rec dbmodels.JobFile) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.JobFile, error) {
	rec := dbmodels.JobFile{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByJob(spaceID, jobID string) (list []dbmodels.JobFile, err error) {
	list = []dbmodels.JobFile{}
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

func (i impl) Delete(spaceID, id string) error {
	return i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Delete(&dbmodels.JobFile{}).
		Error
}
