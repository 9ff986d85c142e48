package jobstore

import (
	"strings"
	"time"

	"creative-tools-backend/models"
	jobapimodels "creative-tools-backend/models/api/job"
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Job) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Job, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	// UpdateWithStatus условное обновление, единственный механизм защиты от гонок:
	// проходит только если текущий статус совпадает с ожидаемым
	UpdateWithStatus(spaceID, id string, expected models.JobStatus, updMap map[string]interface{}) (updated bool, err error)
	List(spaceID string, filter jobapimodels.JobFilter) (list []dbmodels.Job, err error)
	ListCount(spaceID string, filter jobapimodels.JobFilter) (count int64, err error)
	ListByPredecessor(spaceID, predecessorID string, status models.JobStatus) (list []dbmodels.Job, err error)
	ListChildren(spaceID, parentID string) (list []dbmodels.Job, err error)
	ListCompeting(spaceID, assigneeID string, from, to time.Time, excludeStatuses []models.JobStatus) (list []dbmodels.Job, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Job) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Job, error) {
	rec := dbmodels.Job{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload(clause.Associations).
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

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Job{}).
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

func (i impl) UpdateWithStatus(spaceID, id string, expected models.JobStatus, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Job{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Where("status = ?", expected).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) List(spaceID string, filter jobapimodels.JobFilter) (list []dbmodels.Job, err error) {
	list = []dbmodels.Job{}
	tx := i.applyFilter(spaceID, filter)
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	err = tx.
		Limit(limit).
		Offset(offset).
		Preload(clause.Associations).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter jobapimodels.JobFilter) (count int64, err error) {
	err = i.applyFilter(spaceID, filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) ListByPredecessor(spaceID, predecessorID string, status models.JobStatus) (list []dbmodels.Job, err error) {
	list = []dbmodels.Job{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("predecessor_id = ?", predecessorID).
		Where("status = ?", status).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListChildren(spaceID, parentID string) (list []dbmodels.Job, err error) {
	list = []dbmodels.Job{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("parent_id = ?", parentID).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCompeting(spaceID, assigneeID string, from, to time.Time, excludeStatuses []models.JobStatus) (list []dbmodels.Job, err error) {
	list = []dbmodels.Job{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("assignee_id = ?", assigneeID).
		Where("due_date >= ? AND due_date <= ?", from, to).
		Where("status NOT IN ?", excludeStatuses).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) applyFilter(spaceID string, filter jobapimodels.JobFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.Job{}).
		Where("space_id = ?", spaceID)
	if filter.ProjectID != "" {
		tx = tx.Where("project_id = ?", filter.ProjectID)
	}
	if filter.JobTypeID != "" {
		tx = tx.Where("job_type_id = ?", filter.JobTypeID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		tx = tx.Where("priority = ?", filter.Priority)
	}
	if filter.AssigneeID != "" {
		tx = tx.Where("assignee_id = ?", filter.AssigneeID)
	}
	if filter.Search != "" {
		tx = tx.Where("LOWER(name || ' ' || code) like ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return tx
}
