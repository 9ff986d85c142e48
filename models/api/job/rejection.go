package jobapimodels

import (
	"time"

	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
)

type RejectionRequestData struct {
	Reason string `json:"reason"`
}

func (r RejectionRequestData) Validate() error {
	if r.Reason == "" {
		return errors.New("не указана причина отказа")
	}
	return nil
}

type RejectionDecisionData struct {
	Comment string `json:"comment"`
}

type RejectionRequestView struct {
	ID            string                 `json:"id"`
	JobID         string                 `json:"job_id"`
	RequesterID   string                 `json:"requester_id"`
	RequesterName string                 `json:"requester_name,omitempty"`
	Reason        string                 `json:"reason"`
	ApproverIDs   []string               `json:"approver_ids"`
	Quorum        models.QuorumRule      `json:"quorum"`
	Status        models.RejectionStatus `json:"status"`
	AutoCloseAt   time.Time              `json:"auto_close_at"`
	DecidedBy     string                 `json:"decided_by,omitempty"`
	DecidedAt     *time.Time             `json:"decided_at,omitempty"`
	Comment       string                 `json:"comment,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

func RejectionRequestConvert(rec dbmodels.RejectionRequest) RejectionRequestView {
	view := RejectionRequestView{
		ID:          rec.ID,
		JobID:       rec.JobID,
		RequesterID: rec.RequesterID,
		Reason:      rec.Reason,
		ApproverIDs: rec.ApproverIDs,
		Quorum:      rec.Quorum,
		Status:      rec.Status,
		AutoCloseAt: rec.AutoCloseAt,
		DecidedAt:   rec.DecidedAt,
		Comment:     rec.Comment,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.Requester != nil {
		view.RequesterName = rec.Requester.GetFullName()
	}
	if rec.DecidedBy != nil {
		view.DecidedBy = *rec.DecidedBy
	}
	return view
}
