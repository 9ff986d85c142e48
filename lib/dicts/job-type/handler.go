package jobtypeprovider

import (
	"creative-tools-backend/db"
	jobtypestore "creative-tools-backend/lib/dicts/job-type/store"
	jobchainhandler "creative-tools-backend/lib/job-chain"
	"creative-tools-backend/models"
	dictapimodels "creative-tools-backend/models/api/dict"
	dbmodels "creative-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(spaceID string, request dictapimodels.JobTypeData) (id string, err error)
	Update(spaceID, id string, request dictapimodels.JobTypeData) error
	Get(spaceID, id string) (item dictapimodels.JobTypeView, err error)
	List(spaceID string) (list []dictapimodels.JobTypeView, err error)
	Delete(spaceID, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: jobtypestore.NewInstance(db.DB),
		chain: jobchainhandler.Instance,
	}
}

type impl struct {
	store jobtypestore.Provider
	chain jobchainhandler.Provider
}

func (i impl) Create(spaceID string, request dictapimodels.JobTypeData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	if err = request.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	nextID := nextTypeID(request)
	rec := dbmodels.JobType{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Name:          request.Name,
		SlaDays:       request.SlaDays,
		NextJobTypeID: nextID,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	// граф последователей проверяется после создания, когда известен id
	if err = i.chain.ValidateChain(spaceID, id, nextID); err != nil {
		if delErr := i.store.Delete(spaceID, id); delErr != nil {
			logger.WithError(delErr).Error("ошибка отката вида работ с некорректной цепочкой")
		}
		return "", err
	}
	logger.
		WithField("job_type_name", rec.Name).
		WithField("rec_id", id).
		Info("создан вид работ")
	return id, nil
}

func (i impl) Update(spaceID, id string, request dictapimodels.JobTypeData) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	if err := request.Validate(); err != nil {
		return models.NewValidationError(err.Error())
	}
	nextID := nextTypeID(request)
	if err := i.chain.ValidateChain(spaceID, id, nextID); err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"name":             request.Name,
		"sla_days":         request.SlaDays,
		"next_job_type_id": nextID,
	}
	err := i.store.Update(spaceID, id, updMap)
	if err != nil {
		return err
	}
	logger.Info("обновлён вид работ")
	return nil
}

func (i impl) Get(spaceID, id string) (item dictapimodels.JobTypeView, err error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return dictapimodels.JobTypeView{}, err
	}
	if rec == nil {
		return dictapimodels.JobTypeView{}, models.NewNotFoundError("вид работ не найден")
	}
	return dictapimodels.JobTypeConvert(*rec), nil
}

func (i impl) List(spaceID string) (list []dictapimodels.JobTypeView, err error) {
	recList, err := i.store.List(spaceID)
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.JobTypeView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.JobTypeConvert(rec))
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
	logger.Info("удалён вид работ")
	return nil
}

func nextTypeID(request dictapimodels.JobTypeData) *string {
	if request.NextJobTypeID == "" {
		return nil
	}
	return &request.NextJobTypeID
}
