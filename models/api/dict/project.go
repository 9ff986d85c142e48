package dictapimodels

import (
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
)

type ProjectData struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func (r ProjectData) Validate() error {
	if r.Name == "" {
		return errors.New("не указано название проекта")
	}
	return nil
}

type ProjectView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func ProjectConvert(rec dbmodels.Project) ProjectView {
	return ProjectView{
		ID:          rec.ID,
		Name:        rec.Name,
		Code:        rec.Code,
		Description: rec.Description,
		IsActive:    rec.IsActive,
	}
}

// AssignmentData исполнитель по умолчанию для вида работ на проекте
type AssignmentData struct {
	JobTypeID  string `json:"job_type_id"`
	AssigneeID string `json:"assignee_id"`
}

func (r AssignmentData) Validate() error {
	if r.JobTypeID == "" {
		return errors.New("не указан вид работ")
	}
	if r.AssigneeID == "" {
		return errors.New("не указан исполнитель")
	}
	return nil
}

type DepartmentData struct {
	Name      string `json:"name"`
	ManagerID string `json:"manager_id"`
}

func (r DepartmentData) Validate() error {
	if r.Name == "" {
		return errors.New("не указано название отдела")
	}
	return nil
}

type DepartmentView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ManagerID string `json:"manager_id,omitempty"`
}

func DepartmentConvert(rec dbmodels.Department) DepartmentView {
	view := DepartmentView{
		ID:   rec.ID,
		Name: rec.Name,
	}
	if rec.ManagerID != nil {
		view.ManagerID = *rec.ManagerID
	}
	return view
}
