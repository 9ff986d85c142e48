package approvalstore

import (
	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Approval) (id string, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	// GetPending запись согласования этапа в ожидании решения,
	// по инварианту не более одной на пару (работа, этап)
	GetPending(spaceID, jobID string, level int) (rec *dbmodels.Approval, err error)
	ListByJob(spaceID, jobID string) (list []dbmodels.Approval, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Approval) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Approval{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

func (i impl) GetPending(spaceID, jobID string, level int) (*dbmodels.Approval, error) {
	rec := dbmodels.Approval{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("job_id = ?", jobID).
		Where("level = ?", level).
		Where("status = ?", models.AStatusPending).
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

func (i impl) ListByJob(spaceID, jobID string) (list []dbmodels.Approval, err error) {
	list = []dbmodels.Approval{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("job_id = ?", jobID).
		Preload(clause.Associations).
		Order("level, created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
