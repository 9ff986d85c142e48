package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"creative-tools-backend/models"

	"github.com/pkg/errors"
)

// ApprovalFlow настройка согласования для пары (проект, вид работ),
// JobTypeID = null означает настройку проекта по умолчанию.
// Этапы хранятся в jsonb и разбираются один раз на границе резолвера.
type ApprovalFlow struct {
	BaseSpaceModel
	ProjectID        string `gorm:"type:varchar(36);index:idx_flow_scope"`
	Project          *Project
	JobTypeID        *string `gorm:"type:varchar(36);index:idx_flow_scope"`
	JobType          *JobType
	SkipApproval     bool
	Levels           ApprovalLevels `gorm:"type:jsonb"`
	AutoAssignType   models.AutoAssignType `gorm:"type:varchar(50)"`
	AutoAssignUserID *string               `gorm:"type:varchar(36)"`
}

type ApprovalLevel struct {
	Level       int               `json:"level"`
	ApproverIDs []string          `json:"approver_ids"`
	Quorum      models.QuorumRule `json:"quorum"`
}

type ApprovalLevels []ApprovalLevel

func (j ApprovalLevels) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *ApprovalLevels) Scan(value any) error {
	data, ok := value.([]byte)
	if !ok {
		return errors.New("неожиданный тип значения для этапов согласования")
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	return nil
}
