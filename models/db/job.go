package dbmodels

import (
	"time"

	"creative-tools-backend/models"
)

// Job работа на производство. Физически не удаляется, только переводится в
// терминальный статус. Родительская работа не может иметь предшественника,
// дочерняя не может сама быть родительской.
type Job struct {
	BaseSpaceModel
	Code           string `gorm:"type:varchar(50);index"`
	ProjectID      string `gorm:"type:varchar(36);index"`
	Project        *Project
	JobTypeID      string `gorm:"type:varchar(36)"`
	JobType        *JobType
	Name           string `gorm:"type:varchar(255)"`
	Description    string
	Status         models.JobStatus   `gorm:"type:varchar(50);index"`
	Priority       models.JobPriority `gorm:"type:varchar(20)"`
	RequesterID    string             `gorm:"type:varchar(36)"`
	Requester      *SpaceUser         `gorm:"foreignKey:RequesterID"`
	AssigneeID     *string            `gorm:"type:varchar(36);index"`
	Assignee       *SpaceUser         `gorm:"foreignKey:AssigneeID"`
	FlowID         *string            `gorm:"type:varchar(36)"` // снапшот настройки согласования на момент создания
	DueDate        *time.Time
	OriginalDue    *time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	SlaDays        int
	ExtensionCount int
	PredecessorID  *string `gorm:"type:varchar(36);index"`
	NextJobID      *string `gorm:"type:varchar(36)"`
	ParentID       *string `gorm:"type:varchar(36);index"`
	IsParent       bool
	Approvals      []Approval `gorm:"foreignKey:JobID"`
}

func (j Job) AssigneeOrEmpty() string {
	if j.AssigneeID == nil {
		return ""
	}
	return *j.AssigneeID
}
