package projectstore

import (
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Project) (id string, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	Delete(spaceID, id string) error
	GetByID(spaceID, id string) (rec *dbmodels.Project, err error)
	List(spaceID string) (list []dbmodels.Project, err error)
	// GetAssignment исполнитель по умолчанию для вида работ на проекте
	GetAssignment(spaceID, projectID, jobTypeID string) (rec *dbmodels.ProjectAssignment, err error)
	SaveAssignment(rec dbmodels.ProjectAssignment) (id string, err error)
	DeleteAssignment(spaceID, projectID, jobTypeID string) error
	ListAssignments(spaceID, projectID string) (list []dbmodels.ProjectAssignment, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Project) (id string, err error) {
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
		Model(&dbmodels.Project{}).
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
		Delete(&dbmodels.Project{}).
		Error
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Project, error) {
	rec := dbmodels.Project{}
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

func (i impl) List(spaceID string) (list []dbmodels.Project, err error) {
	list = []dbmodels.Project{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Order("name").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetAssignment(spaceID, projectID, jobTypeID string) (*dbmodels.ProjectAssignment, error) {
	rec := dbmodels.ProjectAssignment{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("project_id = ?", projectID).
		Where("job_type_id = ?", jobTypeID).
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

func (i impl) SaveAssignment(rec dbmodels.ProjectAssignment) (id string, err error) {
	current, err := i.GetAssignment(rec.SpaceID, rec.ProjectID, rec.JobTypeID)
	if err != nil {
		return "", err
	}
	if current != nil {
		rec.ID = current.ID
		rec.CreatedAt = current.CreatedAt
	}
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) DeleteAssignment(spaceID, projectID, jobTypeID string) error {
	return i.db.
		Where("space_id = ?", spaceID).
		Where("project_id = ?", projectID).
		Where("job_type_id = ?", jobTypeID).
		Delete(&dbmodels.ProjectAssignment{}).
		Error
}

func (i impl) ListAssignments(spaceID, projectID string) (list []dbmodels.ProjectAssignment, err error) {
	list = []dbmodels.ProjectAssignment{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("project_id = ?", projectID).
		Preload(clause.Associations).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
