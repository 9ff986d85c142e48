package jobapimodels

import (
	"time"

	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"
)

type ApprovalView struct {
	ID           string                `json:"id"`
	JobID        string                `json:"job_id"`
	Level        int                   `json:"level"`
	ApproverID   string                `json:"approver_id,omitempty"`
	ApproverName string                `json:"approver_name,omitempty"`
	Status       models.ApprovalStatus `json:"status"`
	Comment      string                `json:"comment,omitempty"`
	DecidedAt    *time.Time            `json:"decided_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

func ApprovalConvert(rec dbmodels.Approval) ApprovalView {
	view := ApprovalView{
		ID:         rec.ID,
		JobID:      rec.JobID,
		Level:      rec.Level,
		ApproverID: rec.ApproverID,
		Status:     rec.Status,
		Comment:    rec.Comment,
		DecidedAt:  rec.DecidedAt,
		CreatedAt:  rec.CreatedAt,
	}
	if rec.Approver != nil {
		view.ApproverName = rec.Approver.GetFullName()
	}
	return view
}

type ActivityView struct {
	ID        string                   `json:"id"`
	JobID     string                   `json:"job_id"`
	ActorID   string                   `json:"actor_id,omitempty"`
	Action    string                   `json:"action"`
	Details   dbmodels.ActivityDetails `json:"details,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

func ActivityConvert(rec dbmodels.ActivityLog) ActivityView {
	view := ActivityView{
		ID:        rec.ID,
		JobID:     rec.JobID,
		Action:    rec.Action,
		Details:   rec.Details,
		CreatedAt: rec.CreatedAt,
	}
	if rec.ActorID != nil {
		view.ActorID = *rec.ActorID
	}
	return view
}
