package dictapimodels

import (
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
)

type JobTypeData struct {
	Name          string `json:"name"`
	SlaDays       int    `json:"sla_days"`
	NextJobTypeID string `json:"next_job_type_id"`
}

func (r JobTypeData) Validate() error {
	if r.Name == "" {
		return errors.New("не указано название вида работ")
	}
	if r.SlaDays <= 0 {
		return errors.New("SLA должен быть положительным числом рабочих дней")
	}
	return nil
}

type JobTypeView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SlaDays       int    `json:"sla_days"`
	NextJobTypeID string `json:"next_job_type_id,omitempty"`
}

func JobTypeConvert(rec dbmodels.JobType) JobTypeView {
	view := JobTypeView{
		ID:      rec.ID,
		Name:    rec.Name,
		SlaDays: rec.SlaDays,
	}
	if rec.NextJobTypeID != nil {
		view.NextJobTypeID = *rec.NextJobTypeID
	}
	return view
}
