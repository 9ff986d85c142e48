package approvalflowstore

import (
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.ApprovalFlow) (id string, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	Delete(spaceID, id string) error
	GetByID(spaceID, id string) (rec *dbmodels.ApprovalFlow, err error)
	GetByScope(spaceID, projectID string, jobTypeID *string) (rec *dbmodels.ApprovalFlow, err error)
	List(spaceID, projectID string) (list []dbmodels.ApprovalFlow, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalFlow) (id string, err error) {
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
		Model(&dbmodels.ApprovalFlow{}).
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

func (i impl) Delete(spaceID, id string) error {
	return i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Delete(&dbmodels.ApprovalFlow{}).
		Error
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.ApprovalFlow, error) {
	rec := dbmodels.ApprovalFlow{}
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

func (i impl) GetByScope(spaceID, projectID string, jobTypeID *string) (*dbmodels.ApprovalFlow, error) {
	rec := dbmodels.ApprovalFlow{}
	tx := i.db.
		Where("space_id = ?", spaceID).
		Where("project_id = ?", projectID)
	if jobTypeID == nil {
		tx = tx.Where("job_type_id IS NULL")
	} else {
		tx = tx.Where("job_type_id = ?", *jobTypeID)
	}
	err := tx.First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(spaceID, projectID string) (list []dbmodels.ApprovalFlow, err error) {
	list = []dbmodels.ApprovalFlow{}
	tx := i.db.Where("space_id = ?", spaceID)
	if projectID != "" {
		tx = tx.Where("project_id = ?", projectID)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
