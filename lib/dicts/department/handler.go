package departmentprovider

import (
	"creative-tools-backend/db"
	departmentstore "creative-tools-backend/lib/dicts/department/store"
	spaceusersstore "creative-tools-backend/lib/space/users/store"
	"creative-tools-backend/models"
	dictapimodels "creative-tools-backend/models/api/dict"
	dbmodels "creative-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(spaceID string, request dictapimodels.DepartmentData) (id string, err error)
	Update(spaceID, id string, request dictapimodels.DepartmentData) error
	Get(spaceID, id string) (item dictapimodels.DepartmentView, err error)
	List(spaceID string) (list []dictapimodels.DepartmentView, err error)
	Delete(spaceID, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:      departmentstore.NewInstance(db.DB),
		usersStore: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store      departmentstore.Provider
	usersStore spaceusersstore.Provider
}

func (i impl) Create(spaceID string, request dictapimodels.DepartmentData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	if err = request.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	managerID, err := i.checkManager(spaceID, request.ManagerID)
	if err != nil {
		return "", err
	}
	rec := dbmodels.Department{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Name:      request.Name,
		ManagerID: managerID,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	logger.
		WithField("department_name", rec.Name).
		WithField("rec_id", id).
		Info("создан отдел")
	return id, nil
}

func (i impl) Update(spaceID, id string, request dictapimodels.DepartmentData) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	if err := request.Validate(); err != nil {
		return models.NewValidationError(err.Error())
	}
	managerID, err := i.checkManager(spaceID, request.ManagerID)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"name":       request.Name,
		"manager_id": managerID,
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		return err
	}
	logger.Info("обновлён отдел")
	return nil
}

func (i impl) Get(spaceID, id string) (item dictapimodels.DepartmentView, err error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return dictapimodels.DepartmentView{}, err
	}
	if rec == nil {
		return dictapimodels.DepartmentView{}, models.NewNotFoundError("отдел не найден")
	}
	return dictapimodels.DepartmentConvert(*rec), nil
}

func (i impl) List(spaceID string) (list []dictapimodels.DepartmentView, err error) {
	recList, err := i.store.List(spaceID)
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.DepartmentView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.DepartmentConvert(rec))
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
	logger.Info("удалён отдел")
	return nil
}

func (i impl) checkManager(spaceID, managerID string) (*string, error) {
	if managerID == "" {
		return nil, nil
	}
	user, err := i.usersStore.GetByID(managerID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.SpaceID != spaceID {
		return nil, models.NewNotFoundError("руководитель не найден в справочнике сотрудников")
	}
	return &managerID, nil
}
