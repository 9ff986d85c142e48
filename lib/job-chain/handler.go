package jobchainhandler

import (
	"fmt"
	"time"

	"creative-tools-backend/config"
	"creative-tools-backend/db"
	activityloghandler "creative-tools-backend/lib/activity-log"
	autoassignhandler "creative-tools-backend/lib/auto-assign"
	"creative-tools-backend/lib/calendar"
	jobtypestore "creative-tools-backend/lib/dicts/job-type/store"
	approvalstore "creative-tools-backend/lib/job/approval-store"
	jobstore "creative-tools-backend/lib/job/store"
	pushhandler "creative-tools-backend/lib/space/push/handler"
	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// предел обхода по ссылкам NextJobID при каскадной отмене,
// страховка от повреждённых ссылок в данных
const cancelHopLimit = 50

type Provider interface {
	// GetFullChain последователи вида работ в порядке выполнения,
	// без головного вида. Обход ограничен глубиной и набором посещённых.
	GetFullChain(spaceID, jobTypeID string) (chain []dbmodels.JobType, err error)
	// ValidateChain проверка графа последователей перед сохранением вида работ
	ValidateChain(spaceID, jobTypeID string, nextJobTypeID *string) error
	// OnJobCompleted разблокировка работ, ожидающих завершённую
	OnJobCompleted(job dbmodels.Job) error
	// CancelChainedJobs каскадная отмена последователей по цепочке,
	// уже закрытые работы не трогаем
	CancelChainedJobs(job dbmodels.Job, actorID *string, reason string) error
	CancelChildJobs(parent dbmodels.Job, actorID *string, reason string) error
	// CheckParentJobClosure закрытие родительской работы по итогам дочерних
	CheckParentJobClosure(spaceID, parentID string) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		jobStore:         jobstore.NewInstance(db.DB),
		typeStore:        jobtypestore.NewInstance(db.DB),
		approvalStore:    approvalstore.NewInstance(db.DB),
		maxChainDepth:    config.Conf.Engine.MaxChainDepth,
		preventSelfChain: config.Conf.Engine.PreventSelfChain == nil || *config.Conf.Engine.PreventSelfChain,
		nowFn:            time.Now,
	}
}

type impl struct {
	jobStore         jobstore.Provider
	typeStore        jobtypestore.Provider
	approvalStore    approvalstore.Provider
	maxChainDepth    int
	preventSelfChain bool
	nowFn            func() time.Time
}

func (i impl) GetFullChain(spaceID, jobTypeID string) (chain []dbmodels.JobType, err error) {
	head, err := i.typeStore.GetByID(spaceID, jobTypeID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, models.NewNotFoundError("вид работ не найден")
	}
	chain = []dbmodels.JobType{}
	visited := map[string]bool{head.ID: true}
	current := head
	for len(chain) < i.maxChainDepth {
		if current.NextJobTypeID == nil {
			break
		}
		nextID := *current.NextJobTypeID
		if i.preventSelfChain && nextID == current.ID {
			break
		}
		if visited[nextID] {
			// цикл в справочнике, обход останавливаем
			log.WithField("space_id", spaceID).
				WithField("job_type_id", nextID).
				Warn("цикл в графе последователей видов работ")
			break
		}
		next, err := i.typeStore.GetByID(spaceID, nextID)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		visited[nextID] = true
		chain = append(chain, *next)
		current = next
	}
	return chain, nil
}

func (i impl) ValidateChain(spaceID, jobTypeID string, nextJobTypeID *string) error {
	if nextJobTypeID == nil {
		return nil
	}
	if i.preventSelfChain && *nextJobTypeID == jobTypeID {
		return models.NewValidationError("вид работ не может быть последователем самого себя")
	}
	next, err := i.typeStore.GetByID(spaceID, *nextJobTypeID)
	if err != nil {
		return err
	}
	if next == nil {
		return models.NewValidationError("вид работ последователя не найден")
	}
	// проверяем что с учётом нового ребра обход завершится в пределах глубины
	visited := map[string]bool{jobTypeID: true}
	current := next
	for depth := 1; depth <= i.maxChainDepth; depth++ {
		if visited[current.ID] {
			return models.NewValidationError("последователь замыкает цикл видов работ")
		}
		visited[current.ID] = true
		if current.NextJobTypeID == nil {
			return nil
		}
		current, err = i.typeStore.GetByID(spaceID, *current.NextJobTypeID)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}
	}
	return models.NewValidationError(fmt.Sprintf("цепочка видов работ превышает предел в %v шагов", i.maxChainDepth))
}

func (i impl) OnJobCompleted(job dbmodels.Job) error {
	logger := log.
		WithField("space_id", job.SpaceID).
		WithField("job_id", job.ID)
	blocked, err := i.jobStore.ListByPredecessor(job.SpaceID, job.ID, models.JobStatusPendingDependency)
	if err != nil {
		return err
	}
	now := i.nowFn()
	for _, successor := range blocked {
		if err := i.releaseJob(successor, now); err != nil {
			logger.WithField("successor_id", successor.ID).
				WithError(err).
				Error("ошибка разблокировки работы по завершению предшествующей")
		}
	}
	return nil
}

// releaseJob последователь создаётся уже согласованным, запись согласования
// проставляется системой при разблокировке
func (i impl) releaseJob(successor dbmodels.Job, now time.Time) error {
	dueDate := calendar.AddWorkingDays(now, successor.SlaDays)
	updMap := map[string]interface{}{
		"due_date":     dueDate,
		"original_due": dueDate,
	}
	assigneeID := successor.AssigneeOrEmpty()
	if assigneeID == "" {
		result, err := autoassignhandler.Instance.Resolve(successor, nil)
		if err != nil {
			return err
		}
		if result.Resolved {
			assigneeID = result.AssigneeID
			updMap["assignee_id"] = assigneeID
		}
	}
	if assigneeID != "" {
		updMap["status"] = models.JobStatusInProgress
		updMap["started_at"] = now
	} else {
		updMap["status"] = models.JobStatusApproved
	}
	updated, err := i.jobStore.UpdateWithStatus(successor.SpaceID, successor.ID, models.JobStatusPendingDependency, updMap)
	if err != nil {
		return err
	}
	if !updated {
		// работу уже перевели (например отменили), разблокировка не требуется
		return nil
	}
	_, err = i.approvalStore.Create(dbmodels.Approval{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: successor.SpaceID,
		},
		JobID:     successor.ID,
		Level:     1,
		Status:    models.AStatusApproved,
		Comment:   "Согласована автоматически по завершению предшествующей работы",
		DecidedAt: &now,
	})
	if err != nil {
		log.WithField("job_id", successor.ID).
			WithError(err).
			Error("ошибка записи системного согласования")
	}
	activityloghandler.Instance.Log(successor.SpaceID, successor.ID, nil, models.ActivityDependencyReleased, map[string]any{
		"due_date": dueDate.Format("02.01.2006"),
	})
	if assigneeID != "" {
		pushhandler.Instance.SendNotification(assigneeID, models.PushJobUnblocked, successor.Name, dueDate.Format("02.01.2006"))
	} else {
		pushhandler.Instance.NotifySpaceAdmins(successor.SpaceID, models.PushJobManualAssign, successor.Name)
	}
	return nil
}

func (i impl) CancelChainedJobs(job dbmodels.Job, actorID *string, reason string) error {
	logger := log.
		WithField("space_id", job.SpaceID).
		WithField("job_id", job.ID)
	nextID := job.NextJobID
	for hop := 0; hop < cancelHopLimit && nextID != nil; hop++ {
		next, err := i.jobStore.GetByID(job.SpaceID, *nextID)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		if !next.Status.IsTerminal() {
			if err := i.cancelJob(*next, actorID, reason); err != nil {
				logger.WithField("chained_job_id", next.ID).
					WithError(err).
					Error("ошибка каскадной отмены работы")
			}
		}
		nextID = next.NextJobID
	}
	return nil
}

func (i impl) CancelChildJobs(parent dbmodels.Job, actorID *string, reason string) error {
	children, err := i.jobStore.ListChildren(parent.SpaceID, parent.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if child.Status.IsTerminal() {
			continue
		}
		if err := i.cancelJob(child, actorID, reason); err != nil {
			log.WithField("space_id", parent.SpaceID).
				WithField("child_job_id", child.ID).
				WithError(err).
				Error("ошибка отмены дочерней работы")
		}
	}
	return nil
}

func (i impl) cancelJob(job dbmodels.Job, actorID *string, reason string) error {
	updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, job.Status, map[string]interface{}{
		"status": models.JobStatusCancelled,
	})
	if err != nil {
		return err
	}
	if !updated {
		return nil
	}
	activityloghandler.Instance.Log(job.SpaceID, job.ID, actorID, models.ActivityJobCancelled, map[string]any{
		"prev_status": string(job.Status),
		"new_status":  string(models.JobStatusCancelled),
		"reason":      reason,
	})
	if assigneeID := job.AssigneeOrEmpty(); assigneeID != "" {
		pushhandler.Instance.SendNotification(assigneeID, models.PushJobCancelled, job.Name, reason)
	}
	return nil
}

func (i impl) CheckParentJobClosure(spaceID, parentID string) error {
	parent, err := i.jobStore.GetByID(spaceID, parentID)
	if err != nil {
		return err
	}
	if parent == nil || !parent.IsParent || parent.Status.IsTerminal() {
		return nil
	}
	children, err := i.jobStore.ListChildren(spaceID, parentID)
	if err != nil {
		return err
	}
	if len(children) == 0 {
		return nil
	}
	completed := 0
	for _, child := range children {
		if !child.Status.IsTerminal() {
			// есть незакрытые дочерние, родительская остаётся открытой
			return nil
		}
		if child.Status == models.JobStatusCompleted {
			completed++
		}
	}
	newStatus := models.JobStatusRejected
	if completed == len(children) {
		newStatus = models.JobStatusCompleted
	} else if completed > 0 {
		newStatus = models.JobStatusPartiallyCompleted
	}
	now := i.nowFn()
	updMap := map[string]interface{}{
		"status":       newStatus,
		"completed_at": now,
	}
	updated, err := i.jobStore.UpdateWithStatus(spaceID, parentID, parent.Status, updMap)
	if err != nil {
		return err
	}
	if !updated {
		return nil
	}
	activityloghandler.Instance.Log(spaceID, parentID, nil, models.ActivityJobClosed, map[string]any{
		"prev_status": string(parent.Status),
		"new_status":  string(newStatus),
		"children":    len(children),
		"completed":   completed,
	})
	if newStatus == models.JobStatusCompleted {
		pushhandler.Instance.SendNotification(parent.RequesterID, models.PushJobCompleted, parent.Name, "система")
	}
	return nil
}
