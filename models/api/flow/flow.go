package flowapimodels

import (
	"fmt"

	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
)

type ApprovalLevelData struct {
	Level       int               `json:"level"`
	ApproverIDs []string          `json:"approver_ids"`
	Quorum      models.QuorumRule `json:"quorum"`
}

type FlowData struct {
	ProjectID        string                `json:"project_id"`
	JobTypeID        string                `json:"job_type_id"` // пусто — настройка проекта по умолчанию
	SkipApproval     bool                  `json:"skip_approval"`
	Levels           []ApprovalLevelData   `json:"levels"`
	AutoAssignType   models.AutoAssignType `json:"auto_assign_type"`
	AutoAssignUserID string                `json:"auto_assign_user_id"`
}

func (r FlowData) Validate() error {
	if r.ProjectID == "" {
		return errors.New("не указан проект")
	}
	switch r.AutoAssignType {
	case "", models.AutoAssignManual, models.AutoAssignDeptManager:
	case models.AutoAssignSpecificUser, models.AutoAssignTeamLead:
		if r.AutoAssignUserID == "" {
			return errors.New("не указан пользователь для автоназначения")
		}
	default:
		return errors.Errorf("неизвестный тип автоназначения: %v", r.AutoAssignType)
	}
	for idx, level := range r.Levels {
		if level.Level != idx+1 {
			return errors.Errorf("нарушена нумерация этапов согласования, этап %v на позиции %v", level.Level, idx+1)
		}
		if len(level.ApproverIDs) == 0 {
			return errors.Errorf("не указаны согласующие на этапе %v", level.Level)
		}
		if level.Quorum != models.QuorumAny && level.Quorum != models.QuorumAll {
			return errors.Errorf("неизвестное правило кворума на этапе %v: %v", level.Level, level.Quorum)
		}
	}
	return nil
}

type FlowView struct {
	ID               string                `json:"id"`
	ProjectID        string                `json:"project_id"`
	JobTypeID        string                `json:"job_type_id,omitempty"`
	SkipApproval     bool                  `json:"skip_approval"`
	Levels           []ApprovalLevelData   `json:"levels"`
	AutoAssignType   models.AutoAssignType `json:"auto_assign_type"`
	AutoAssignUserID string                `json:"auto_assign_user_id,omitempty"`
}

func FlowConvert(rec dbmodels.ApprovalFlow) FlowView {
	view := FlowView{
		ID:             rec.ID,
		ProjectID:      rec.ProjectID,
		SkipApproval:   rec.SkipApproval,
		AutoAssignType: rec.AutoAssignType,
		Levels:         make([]ApprovalLevelData, 0, len(rec.Levels)),
	}
	if rec.JobTypeID != nil {
		view.JobTypeID = *rec.JobTypeID
	}
	if rec.AutoAssignUserID != nil {
		view.AutoAssignUserID = *rec.AutoAssignUserID
	}
	for _, level := range rec.Levels {
		view.Levels = append(view.Levels, ApprovalLevelData{
			Level:       level.Level,
			ApproverIDs: level.ApproverIDs,
			Quorum:      level.Quorum,
		})
	}
	return view
}

func (r FlowData) GetScopeName() string {
	if r.JobTypeID == "" {
		return fmt.Sprintf("проект %v (по умолчанию)", r.ProjectID)
	}
	return fmt.Sprintf("проект %v, вид работ %v", r.ProjectID, r.JobTypeID)
}
