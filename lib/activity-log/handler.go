package activityloghandler

import (
	"creative-tools-backend/db"
	activitylogstore "creative-tools-backend/lib/activity-log/store"
	jobapimodels "creative-tools-backend/models/api/job"
	dbmodels "creative-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Log запись в журнал активности, ошибка только логируется:
	// журнал не должен ронять бизнес-операцию
	Log(spaceID, jobID string, actorID *string, action string, details map[string]any)
	ListByJob(spaceID, jobID string) (list []jobapimodels.ActivityView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: activitylogstore.NewInstance(db.DB),
	}
}

type impl struct {
	store activitylogstore.Provider
}

func (i impl) Log(spaceID, jobID string, actorID *string, action string, details map[string]any) {
	rec := dbmodels.ActivityLog{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		JobID:   jobID,
		ActorID: actorID,
		Action:  action,
		Details: details,
	}
	_, err := i.store.Create(rec)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithField("job_id", jobID).
			WithField("action", action).
			WithError(err).
			Error("ошибка записи в журнал активности")
	}
}

func (i impl) ListByJob(spaceID, jobID string) (list []jobapimodels.ActivityView, err error) {
	recList, err := i.store.ListByJob(spaceID, jobID)
	if err != nil {
		return nil, err
	}
	result := make([]jobapimodels.ActivityView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, jobapimodels.ActivityConvert(rec))
	}
	return result, nil
}
