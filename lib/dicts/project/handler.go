package projectprovider

import (
	"creative-tools-backend/db"
	jobtypestore "creative-tools-backend/lib/dicts/job-type/store"
	projectstore "creative-tools-backend/lib/dicts/project/store"
	spaceusersstore "creative-tools-backend/lib/space/users/store"
	"creative-tools-backend/models"
	dictapimodels "creative-tools-backend/models/api/dict"
	dbmodels "creative-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(spaceID string, request dictapimodels.ProjectData) (id string, err error)
	Update(spaceID, id string, request dictapimodels.ProjectData) error
	Get(spaceID, id string) (item dictapimodels.ProjectView, err error)
	List(spaceID string) (list []dictapimodels.ProjectView, err error)
	Delete(spaceID, id string) error
	// SaveAssignment карта исполнителей по умолчанию для видов работ проекта
	SaveAssignment(spaceID, projectID string, request dictapimodels.AssignmentData) error
	DeleteAssignment(spaceID, projectID, jobTypeID string) error
	ListAssignments(spaceID, projectID string) (list []dictapimodels.AssignmentData, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:      projectstore.NewInstance(db.DB),
		typeStore:  jobtypestore.NewInstance(db.DB),
		usersStore: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store      projectstore.Provider
	typeStore  jobtypestore.Provider
	usersStore spaceusersstore.Provider
}

func (i impl) Create(spaceID string, request dictapimodels.ProjectData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	if err = request.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	rec := dbmodels.Project{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Name:        request.Name,
		Code:        request.Code,
		Description: request.Description,
		IsActive:    request.IsActive,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	logger.
		WithField("project_name", rec.Name).
		WithField("rec_id", id).
		Info("создан проект")
	return id, nil
}

func (i impl) Update(spaceID, id string, request dictapimodels.ProjectData) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	if err := request.Validate(); err != nil {
		return models.NewValidationError(err.Error())
	}
	updMap := map[string]interface{}{
		"name":        request.Name,
		"code":        request.Code,
		"description": request.Description,
		"is_active":   request.IsActive,
	}
	err := i.store.Update(spaceID, id, updMap)
	if err != nil {
		return err
	}
	logger.Info("обновлён проект")
	return nil
}

func (i impl) Get(spaceID, id string) (item dictapimodels.ProjectView, err error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return dictapimodels.ProjectView{}, err
	}
	if rec == nil {
		return dictapimodels.ProjectView{}, models.NewNotFoundError("проект не найден")
	}
	return dictapimodels.ProjectConvert(*rec), nil
}

func (i impl) List(spaceID string) (list []dictapimodels.ProjectView, err error) {
	recList, err := i.store.List(spaceID)
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.ProjectView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.ProjectConvert(rec))
	}
	return result, nil
}

func (i impl) Delete(spaceID, id string) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	err := i.store.Delete(spaceID, id)
	if err != nil {
		return err
	}
	logger.Info("удалён проект")
	return nil
}

func (i impl) SaveAssignment(spaceID, projectID string, request dictapimodels.AssignmentData) error {
	if err := request.Validate(); err != nil {
		return models.NewValidationError(err.Error())
	}
	project, err := i.store.GetByID(spaceID, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return models.NewNotFoundError("проект не найден")
	}
	jobType, err := i.typeStore.GetByID(spaceID, request.JobTypeID)
	if err != nil {
		return err
	}
	if jobType == nil {
		return models.NewNotFoundError("вид работ не найден")
	}
	user, err := i.usersStore.GetByID(request.AssigneeID)
	if err != nil {
		return err
	}
	if user == nil || user.SpaceID != spaceID {
		return models.NewNotFoundError("исполнитель не найден")
	}
	_, err = i.store.SaveAssignment(dbmodels.ProjectAssignment{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		ProjectID:  projectID,
		JobTypeID:  request.JobTypeID,
		AssigneeID: request.AssigneeID,
	})
	return err
}

func (i impl) DeleteAssignment(spaceID, projectID, jobTypeID string) error {
	return i.store.DeleteAssignment(spaceID, projectID, jobTypeID)
}

func (i impl) ListAssignments(spaceID, projectID string) (list []dictapimodels.AssignmentData, err error) {
	recList, err := i.store.ListAssignments(spaceID, projectID)
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.AssignmentData, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.AssignmentData{
			JobTypeID:  rec.JobTypeID,
			AssigneeID: rec.AssigneeID,
		})
	}
	return result, nil
}
