package jobapimodels

import (
	"time"

	"creative-tools-backend/models"
	apimodels "creative-tools-backend/models/api"
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
)

type JobCreateData struct {
	ProjectID     string             `json:"project_id"`
	JobTypeID     string             `json:"job_type_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Priority      models.JobPriority `json:"priority"`
	SlaDays       int                `json:"sla_days"`       // 0 — взять из вида работ
	PredecessorID string             `json:"predecessor_id"` // работа, завершения которой нужно дождаться
	ParentID      string             `json:"parent_id"`
	IsParent      bool               `json:"is_parent"`
	PlanChain     bool               `json:"plan_chain"` // создать работы-последователи по цепочке видов
}

func (r JobCreateData) Validate() error {
	if r.ProjectID == "" {
		return errors.New("не указан проект")
	}
	if r.JobTypeID == "" {
		return errors.New("не указан вид работ")
	}
	if r.Name == "" {
		return errors.New("не указано название работы")
	}
	if r.Priority == "" {
		return errors.New("не указан приоритет")
	}
	if err := r.Priority.Validate(); err != nil {
		return err
	}
	if r.IsParent && r.PredecessorID != "" {
		return errors.New("родительская работа не может иметь предшественника")
	}
	if r.IsParent && r.ParentID != "" {
		return errors.New("дочерняя работа не может быть родительской")
	}
	return nil
}

// ApprovalDecision решение согласующего, ip и user agent заполняет контроллер
type ApprovalDecision struct {
	Comment   string `json:"comment"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

type CancelData struct {
	Reason string `json:"reason"`
}

type AssignData struct {
	AssigneeID string `json:"assignee_id"`
}

func (r AssignData) Validate() error {
	if r.AssigneeID == "" {
		return errors.New("не указан исполнитель")
	}
	return nil
}

type ExtensionData struct {
	Days   int    `json:"days"`
	Reason string `json:"reason"`
}

func (r ExtensionData) Validate() error {
	if r.Days <= 0 {
		return errors.New("количество дней продления должно быть положительным")
	}
	if r.Reason == "" {
		return errors.New("не указана причина продления")
	}
	return nil
}

type JobFilter struct {
	apimodels.Pagination
	ProjectID  string             `json:"project_id"`
	JobTypeID  string             `json:"job_type_id"`
	Status     models.JobStatus   `json:"status"`
	Priority   models.JobPriority `json:"priority"`
	AssigneeID string             `json:"assignee_id"`
	Search     string             `json:"search"`
}

type JobView struct {
	ID             string             `json:"id"`
	Code           string             `json:"code"`
	ProjectID      string             `json:"project_id"`
	ProjectName    string             `json:"project_name,omitempty"`
	JobTypeID      string             `json:"job_type_id"`
	JobTypeName    string             `json:"job_type_name,omitempty"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	Status         models.JobStatus   `json:"status"`
	StatusName     string             `json:"status_name"`
	Priority       models.JobPriority `json:"priority"`
	RequesterID    string             `json:"requester_id"`
	RequesterName  string             `json:"requester_name,omitempty"`
	AssigneeID     string             `json:"assignee_id,omitempty"`
	AssigneeName   string             `json:"assignee_name,omitempty"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	OriginalDue    *time.Time         `json:"original_due,omitempty"`
	StartedAt      *time.Time         `json:"started_at,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	SlaDays        int                `json:"sla_days"`
	ExtensionCount int                `json:"extension_count"`
	PredecessorID  string             `json:"predecessor_id,omitempty"`
	ParentID       string             `json:"parent_id,omitempty"`
	IsParent       bool               `json:"is_parent"`
	CreatedAt      time.Time          `json:"created_at"`
}

func JobConvert(rec dbmodels.Job) JobView {
	view := JobView{
		ID:             rec.ID,
		Code:           rec.Code,
		ProjectID:      rec.ProjectID,
		JobTypeID:      rec.JobTypeID,
		Name:           rec.Name,
		Description:    rec.Description,
		Status:         rec.Status,
		StatusName:     rec.Status.ToHuman(),
		Priority:       rec.Priority,
		RequesterID:    rec.RequesterID,
		DueDate:        rec.DueDate,
		OriginalDue:    rec.OriginalDue,
		StartedAt:      rec.StartedAt,
		CompletedAt:    rec.CompletedAt,
		SlaDays:        rec.SlaDays,
		ExtensionCount: rec.ExtensionCount,
		IsParent:       rec.IsParent,
		CreatedAt:      rec.CreatedAt,
	}
	if rec.Project != nil {
		view.ProjectName = rec.Project.Name
	}
	if rec.JobType != nil {
		view.JobTypeName = rec.JobType.Name
	}
	if rec.Requester != nil {
		view.RequesterName = rec.Requester.GetFullName()
	}
	if rec.AssigneeID != nil {
		view.AssigneeID = *rec.AssigneeID
	}
	if rec.Assignee != nil {
		view.AssigneeName = rec.Assignee.GetFullName()
	}
	if rec.PredecessorID != nil {
		view.PredecessorID = *rec.PredecessorID
	}
	if rec.ParentID != nil {
		view.ParentID = *rec.ParentID
	}
	return view
}
