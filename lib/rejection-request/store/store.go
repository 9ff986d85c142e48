package rejectionrequeststore

import (
	"time"

	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.RejectionRequest) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.RejectionRequest, err error)
	GetPendingByJob(spaceID, jobID string) (rec *dbmodels.RejectionRequest, err error)
	// UpdateWithStatus условное обновление: проходит только пока запрос в ожидаемом
	// статусе, этим примиряются ручное решение и фоновое авто-закрытие
	UpdateWithStatus(spaceID, id string, expected models.RejectionStatus, updMap map[string]interface{}) (updated bool, err error)
	ListByJob(spaceID, jobID string) (list []dbmodels.RejectionRequest, err error)
	// ListExpired просроченные запросы по всем пространствам для фоновой задачи
	ListExpired(now time.Time) (list []dbmodels.RejectionRequest, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.RejectionRequest) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.RejectionRequest, error) {
	rec := dbmodels.RejectionRequest{}
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

func (i impl) GetPendingByJob(spaceID, jobID string) (*dbmodels.RejectionRequest, error) {
	rec := dbmodels.RejectionRequest{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("job_id = ?", jobID).
		Where("status = ?", models.RejectionStatusPending).
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

func (i impl) UpdateWithStatus(spaceID, id string, expected models.RejectionStatus, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.RejectionRequest{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Where("status = ?", expected).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListByJob(spaceID, jobID string) (list []dbmodels.RejectionRequest, err error) {
	list = []dbmodels.RejectionRequest{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("job_id = ?", jobID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListExpired(now time.Time) (list []dbmodels.RejectionRequest, err error) {
	list = []dbmodels.RejectionRequest{}
	err = i.db.
		Where("status = ?", models.RejectionStatusPending).
		Where("auto_close_at <= ?", now).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
