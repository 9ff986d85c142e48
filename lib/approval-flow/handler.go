package approvalflowhandler

import (
	"creative-tools-backend/db"
	approvalflowstore "creative-tools-backend/lib/approval-flow/store"
	projectstore "creative-tools-backend/lib/dicts/project/store"
	spaceusersstore "creative-tools-backend/lib/space/users/store"
	"creative-tools-backend/models"
	flowapimodels "creative-tools-backend/models/api/flow"
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Resolve настройка согласования для пары (проект, вид работ) с откатом на
	// настройку проекта по умолчанию; nil — настройки нет, согласование по
	// безопасному умолчанию (один этап)
	Resolve(spaceID, projectID, jobTypeID string) (flow *dbmodels.ApprovalFlow, err error)
	GetByID(spaceID, id string) (flow *dbmodels.ApprovalFlow, err error)
	Save(spaceID string, data flowapimodels.FlowData) (id string, hMsg string, err error)
	Delete(spaceID, id string) error
	List(spaceID, projectID string) (list []flowapimodels.FlowView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        approvalflowstore.NewInstance(db.DB),
		projectStore: projectstore.NewInstance(db.DB),
		usersStore:   spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store        approvalflowstore.Provider
	projectStore projectstore.Provider
	usersStore   spaceusersstore.Provider
}

func (i impl) Resolve(spaceID, projectID, jobTypeID string) (*dbmodels.ApprovalFlow, error) {
	if jobTypeID != "" {
		flow, err := i.store.GetByScope(spaceID, projectID, &jobTypeID)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
	}
	return i.store.GetByScope(spaceID, projectID, nil)
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.ApprovalFlow, error) {
	return i.store.GetByID(spaceID, id)
}

func (i impl) Save(spaceID string, data flowapimodels.FlowData) (id string, hMsg string, err error) {
	logger := log.WithField("space_id", spaceID)
	project, err := i.projectStore.GetByID(spaceID, data.ProjectID)
	if err != nil {
		return "", "", err
	}
	if project == nil {
		return "", "проект не найден", nil
	}
	for _, level := range data.Levels {
		for _, approverID := range level.ApproverIDs {
			user, err := i.usersStore.GetByID(approverID)
			if err != nil {
				return "", "", err
			}
			if user == nil || user.SpaceID != spaceID {
				return "", "согласующий не найден в справочнике сотрудников", nil
			}
		}
	}
	if data.AutoAssignUserID != "" {
		user, err := i.usersStore.GetByID(data.AutoAssignUserID)
		if err != nil {
			return "", "", err
		}
		if user == nil || user.SpaceID != spaceID {
			return "", "пользователь для автоназначения не найден", nil
		}
	}

	rec := dbmodels.ApprovalFlow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		ProjectID:      data.ProjectID,
		SkipApproval:   data.SkipApproval,
		AutoAssignType: data.AutoAssignType,
		Levels:         make(dbmodels.ApprovalLevels, 0, len(data.Levels)),
	}
	if rec.AutoAssignType == "" {
		rec.AutoAssignType = models.AutoAssignManual
	}
	var jobTypeID *string
	if data.JobTypeID != "" {
		jobTypeID = &data.JobTypeID
		rec.JobTypeID = jobTypeID
	}
	if data.AutoAssignUserID != "" {
		rec.AutoAssignUserID = &data.AutoAssignUserID
	}
	for _, level := range data.Levels {
		rec.Levels = append(rec.Levels, dbmodels.ApprovalLevel{
			Level:       level.Level,
			ApproverIDs: level.ApproverIDs,
			Quorum:      level.Quorum,
		})
	}

	// настройка в области (проект, вид работ) существует в одном экземпляре,
	// правка между работами перезаписывает её
	current, err := i.store.GetByScope(spaceID, data.ProjectID, jobTypeID)
	if err != nil {
		return "", "", err
	}
	if current != nil {
		rec.ID = current.ID
		rec.CreatedAt = current.CreatedAt
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", "", errors.Wrapf(err, "ошибка сохранения настройки согласования, scope=%v", data.GetScopeName())
	}
	logger.WithField("rec_id", id).Info("сохранена настройка согласования")
	return id, "", nil
}

func (i impl) Delete(spaceID, id string) error {
	return i.store.Delete(spaceID, id)
}

func (i impl) List(spaceID, projectID string) (list []flowapimodels.FlowView, err error) {
	recList, err := i.store.List(spaceID, projectID)
	if err != nil {
		return nil, err
	}
	result := make([]flowapimodels.FlowView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, flowapimodels.FlowConvert(rec))
	}
	return result, nil
}

// IsSkip согласование отключено настройкой
func IsSkip(flow *dbmodels.ApprovalFlow) bool {
	return flow != nil && flow.SkipApproval
}

// LevelCount количество этапов согласования. Отсутствие настройки означает
// один этап по умолчанию: без явной настройки согласование не пропускается.
func LevelCount(flow *dbmodels.ApprovalFlow) int {
	if flow == nil {
		return 1
	}
	if flow.SkipApproval {
		return 0
	}
	if len(flow.Levels) == 0 {
		return 1
	}
	return len(flow.Levels)
}

// LevelApprovers согласующие этапа. Пустой список — этап по умолчанию,
// решение принимает администратор пространства.
func LevelApprovers(flow *dbmodels.ApprovalFlow, level int) (approverIDs []string, quorum models.QuorumRule) {
	if flow == nil {
		return nil, models.QuorumAny
	}
	for _, rec := range flow.Levels {
		if rec.Level == level {
			quorum = rec.Quorum
			if quorum == "" {
				quorum = models.QuorumAny
			}
			return rec.ApproverIDs, quorum
		}
	}
	return nil, models.QuorumAny
}

// IsApprover входит ли пользователь в согласующие этапа
func IsApprover(flow *dbmodels.ApprovalFlow, level int, userID string) bool {
	approverIDs, _ := LevelApprovers(flow, level)
	for _, id := range approverIDs {
		if id == userID {
			return true
		}
	}
	return false
}
