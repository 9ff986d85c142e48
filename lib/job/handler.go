package jobhandler

import (
	"fmt"
	"strings"
	"time"

	"creative-tools-backend/db"
	activityloghandler "creative-tools-backend/lib/activity-log"
	approvalflowhandler "creative-tools-backend/lib/approval-flow"
	autoassignhandler "creative-tools-backend/lib/auto-assign"
	"creative-tools-backend/lib/calendar"
	jobtypestore "creative-tools-backend/lib/dicts/job-type/store"
	projectstore "creative-tools-backend/lib/dicts/project/store"
	jobchainhandler "creative-tools-backend/lib/job-chain"
	approvalstore "creative-tools-backend/lib/job/approval-store"
	jobstore "creative-tools-backend/lib/job/store"
	pushhandler "creative-tools-backend/lib/space/push/handler"
	spaceusersstore "creative-tools-backend/lib/space/users/store"
	urgenthandler "creative-tools-backend/lib/urgent"
	"creative-tools-backend/models"
	jobapimodels "creative-tools-backend/models/api/job"
	dbmodels "creative-tools-backend/models/db"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Create создание работы: резолв настройки согласования, планирование
	// цепочки последователей, короткое согласование инициатором-согласующим
	Create(principal models.Principal, data jobapimodels.JobCreateData) (id string, err error)
	GetByID(spaceID, id string) (view *jobapimodels.JobView, err error)
	List(spaceID string, filter jobapimodels.JobFilter) (list []jobapimodels.JobView, rowCount int64, err error)
	// Approve решение согласующего: продвижение на следующий этап или финализация
	Approve(principal models.Principal, jobID string, decision jobapimodels.ApprovalDecision) error
	// Reject отклонение работы, комментарий обязателен
	Reject(principal models.Principal, jobID string, decision jobapimodels.ApprovalDecision) error
	// Assign ручное назначение исполнителя для работы без него
	Assign(principal models.Principal, jobID, assigneeID string) error
	Complete(principal models.Principal, jobID string) error
	Cancel(principal models.Principal, jobID string, data jobapimodels.CancelData) error
	// ExtendDueDate продление срока исполнителем, срок считается в рабочих днях
	ExtendDueDate(principal models.Principal, jobID string, data jobapimodels.ExtensionData) error
	ListApprovals(spaceID, jobID string) (list []jobapimodels.ApprovalView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		jobStore:      jobstore.NewInstance(db.DB),
		approvalStore: approvalstore.NewInstance(db.DB),
		typeStore:     jobtypestore.NewInstance(db.DB),
		projectStore:  projectstore.NewInstance(db.DB),
		usersStore:    spaceusersstore.NewInstance(db.DB),
		flow:          approvalflowhandler.Instance,
		autoAssign:    autoassignhandler.Instance,
		chain:         jobchainhandler.Instance,
		urgent:        urgenthandler.Instance,
		activity:      activityloghandler.Instance,
		push:          pushhandler.Instance,
		nowFn:         time.Now,
	}
}

type impl struct {
	jobStore      jobstore.Provider
	approvalStore approvalstore.Provider
	typeStore     jobtypestore.Provider
	projectStore  projectstore.Provider
	usersStore    spaceusersstore.Provider
	flow          approvalflowhandler.Provider
	autoAssign    autoassignhandler.Provider
	chain         jobchainhandler.Provider
	urgent        urgenthandler.Provider
	activity      activityloghandler.Provider
	push          pushhandler.Provider
	nowFn         func() time.Time
}

func (i impl) getLogger(spaceID, jobID string) *log.Entry {
	return log.
		WithField("space_id", spaceID).
		WithField("job_id", jobID)
}

func (i impl) Create(principal models.Principal, data jobapimodels.JobCreateData) (string, error) {
	if err := data.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	project, err := i.projectStore.GetByID(principal.SpaceID, data.ProjectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", models.NewNotFoundError("проект не найден")
	}
	jobType, err := i.typeStore.GetByID(principal.SpaceID, data.JobTypeID)
	if err != nil {
		return "", err
	}
	if jobType == nil {
		return "", models.NewNotFoundError("вид работ не найден")
	}
	slaDays := data.SlaDays
	if slaDays <= 0 {
		slaDays = jobType.SlaDays
	}
	flow, err := i.flow.Resolve(principal.SpaceID, data.ProjectID, data.JobTypeID)
	if err != nil {
		return "", err
	}

	rec := dbmodels.Job{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: principal.SpaceID,
		},
		Code:        newJobCode(),
		ProjectID:   data.ProjectID,
		JobTypeID:   data.JobTypeID,
		Name:        data.Name,
		Description: data.Description,
		Priority:    data.Priority,
		RequesterID: principal.UserID,
		SlaDays:     slaDays,
		IsParent:    data.IsParent,
	}
	if flow != nil {
		rec.FlowID = &flow.ID
	}

	var predecessor *dbmodels.Job
	if data.PredecessorID != "" {
		predecessor, err = i.jobStore.GetByID(principal.SpaceID, data.PredecessorID)
		if err != nil {
			return "", err
		}
		if predecessor == nil {
			return "", models.NewNotFoundError("предшествующая работа не найдена")
		}
		if predecessor.Status.IsTerminal() && predecessor.Status != models.JobStatusCompleted {
			return "", models.NewValidationError("предшествующая работа отменена или отклонена")
		}
	}
	var parent *dbmodels.Job
	if data.ParentID != "" {
		parent, err = i.jobStore.GetByID(principal.SpaceID, data.ParentID)
		if err != nil {
			return "", err
		}
		if parent == nil {
			return "", models.NewNotFoundError("родительская работа не найдена")
		}
		if !parent.IsParent {
			return "", models.NewValidationError("указанная работа не является родительской")
		}
		if parent.Status.IsTerminal() {
			return "", models.NewValidationError("родительская работа уже закрыта")
		}
		rec.ParentID = &parent.ID
	}

	now := i.nowFn()
	selfApproved := false
	finalized := false
	switch {
	case predecessor != nil && predecessor.Status != models.JobStatusCompleted:
		// ждёт завершения предшествующей, согласование пройдёт при разблокировке
		rec.Status = models.JobStatusPendingDependency
		rec.PredecessorID = &predecessor.ID
	case parent != nil:
		// дочерние работы согласуются родительской
		if parent.Status.IsPendingApproval() || parent.Status == models.JobStatusDraft {
			rec.Status = models.JobStatusApproved
		} else {
			i.applyAssignment(&rec, flow, now)
			finalized = true
		}
	case approvalflowhandler.IsSkip(flow):
		i.applyAssignment(&rec, flow, now)
		finalized = true
	case approvalflowhandler.IsApprover(flow, 1, principal.UserID):
		// инициатор сам согласует первый этап
		selfApproved = true
		if approvalflowhandler.LevelCount(flow) > 1 {
			rec.Status = models.PendingStatusByLevel(2)
		} else {
			i.applyAssignment(&rec, flow, now)
			finalized = true
		}
	default:
		rec.Status = models.JobStatusPendingApproval
	}
	id, err := i.jobStore.Create(rec)
	if err != nil {
		return "", err
	}
	rec.ID = id
	logger := i.getLogger(principal.SpaceID, id)
	logger.WithField("status", rec.Status).Info("создана работа")

	if rec.PredecessorID != nil && predecessor.NextJobID == nil {
		err = i.jobStore.Update(principal.SpaceID, predecessor.ID, map[string]interface{}{
			"next_job_id": id,
		})
		if err != nil {
			logger.WithError(err).Error("ошибка привязки к предшествующей работе")
		}
	}

	i.activity.Log(principal.SpaceID, id, &principal.UserID, models.ActivityJobCreated, map[string]any{
		"new_status": string(rec.Status),
		"code":       rec.Code,
	})
	if selfApproved {
		i.writeApproval(rec, 1, principal.UserID, models.AStatusApproved, "Согласовано инициатором при создании", "", "", now)
		i.activity.Log(principal.SpaceID, id, &principal.UserID, models.ActivityJobApproved, map[string]any{
			"level": 1,
		})
	}
	if rec.Status.IsPendingApproval() {
		level, _ := rec.Status.ApprovalLevel()
		i.createPendingApproval(rec, level)
	}
	if finalized {
		i.afterAssignment(rec, &principal.UserID)
	}

	if data.PlanChain {
		if err := i.planChain(principal, rec, data); err != nil {
			logger.WithError(err).Error("ошибка планирования цепочки последователей")
		}
	}
	return id, nil
}

// applyAssignment подбор исполнителя и расчёт срока на момент запуска работы
func (i impl) applyAssignment(rec *dbmodels.Job, flow *dbmodels.ApprovalFlow, now time.Time) {
	result, err := i.autoAssign.Resolve(*rec, flow)
	if err != nil {
		i.getLogger(rec.SpaceID, rec.ID).WithError(err).Error("ошибка автоназначения")
		result = autoassignhandler.Result{}
	}
	dueDate := calendar.AddWorkingDays(now, rec.SlaDays)
	rec.DueDate = &dueDate
	rec.OriginalDue = &dueDate
	if result.Resolved {
		rec.Status = models.JobStatusInProgress
		rec.AssigneeID = &result.AssigneeID
		rec.StartedAt = &now
	} else {
		rec.Status = models.JobStatusApproved
	}
}

// afterAssignment события после запуска работы: уведомления, журнал, сдвиг
// сроков конкурирующих работ под срочную
func (i impl) afterAssignment(rec dbmodels.Job, actorID *string) {
	if assigneeID := rec.AssigneeOrEmpty(); assigneeID != "" {
		i.activity.Log(rec.SpaceID, rec.ID, actorID, models.ActivityJobAssigned, map[string]any{
			"assignee_id": assigneeID,
		})
		dueDate := ""
		if rec.DueDate != nil {
			dueDate = rec.DueDate.Format("02.01.2006")
		}
		i.push.SendNotification(assigneeID, models.PushJobAssigned, rec.Name, dueDate)
		if rec.Priority == models.JobPriorityUrgent {
			i.urgent.Reschedule(rec)
		}
		return
	}
	i.activity.Log(rec.SpaceID, rec.ID, nil, models.ActivityJobAssignUnresolved, nil)
	i.push.NotifySpaceAdmins(rec.SpaceID, models.PushJobManualAssign, rec.Name)
}

// planChain создание работ-последователей по цепочке видов работ
func (i impl) planChain(principal models.Principal, head dbmodels.Job, data jobapimodels.JobCreateData) error {
	chain, err := i.chain.GetFullChain(principal.SpaceID, head.JobTypeID)
	if err != nil {
		return err
	}
	prev := head
	for _, jobType := range chain {
		successor := dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: principal.SpaceID,
			},
			Code:          newJobCode(),
			ProjectID:     head.ProjectID,
			JobTypeID:     jobType.ID,
			Name:          fmt.Sprintf("%s — %s", data.Name, jobType.Name),
			Priority:      head.Priority,
			RequesterID:   principal.UserID,
			Status:        models.JobStatusPendingDependency,
			SlaDays:       jobType.SlaDays,
			PredecessorID: &prev.ID,
		}
		id, err := i.jobStore.Create(successor)
		if err != nil {
			return err
		}
		successor.ID = id
		err = i.jobStore.Update(principal.SpaceID, prev.ID, map[string]interface{}{
			"next_job_id": id,
		})
		if err != nil {
			return err
		}
		i.activity.Log(principal.SpaceID, id, &principal.UserID, models.ActivityJobCreated, map[string]any{
			"new_status":     string(models.JobStatusPendingDependency),
			"code":           successor.Code,
			"predecessor_id": prev.ID,
		})
		prev = successor
	}
	return nil
}

func (i impl) GetByID(spaceID, id string) (*jobapimodels.JobView, error) {
	rec, err := i.jobStore.GetByID(spaceID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.NewNotFoundError("работа не найдена")
	}
	view := jobapimodels.JobConvert(*rec)
	return &view, nil
}

func (i impl) List(spaceID string, filter jobapimodels.JobFilter) (list []jobapimodels.JobView, rowCount int64, err error) {
	recList, err := i.jobStore.List(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	rowCount, err = i.jobStore.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]jobapimodels.JobView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, jobapimodels.JobConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Approve(principal models.Principal, jobID string, decision jobapimodels.ApprovalDecision) error {
	job, flow, level, err := i.getForApproval(principal, jobID)
	if err != nil {
		return err
	}
	now := i.nowFn()
	approverIDs, quorum := approvalflowhandler.LevelApprovers(flow, level)
	quorumApplied := quorum == models.QuorumAll && len(approverIDs) > 1
	if quorumApplied {
		done, err := i.approveForQuorum(principal, *job, level, approverIDs, decision, now)
		if err != nil {
			return err
		}
		if !done {
			// кворум этапа ещё не собран, статус не меняется
			return nil
		}
	}

	if level < approvalflowhandler.LevelCount(flow) {
		newStatus := models.PendingStatusByLevel(level + 1)
		updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, job.Status, map[string]interface{}{
			"status": newStatus,
		})
		if err != nil {
			return err
		}
		if !updated {
			return models.NewAlreadyProcessedError("работа уже обработана")
		}
		if !quorumApplied {
			i.decidePending(*job, level, principal.UserID, models.AStatusApproved, decision, now)
		}
		nextRec := *job
		nextRec.Status = newStatus
		i.createPendingApproval(nextRec, level+1)
		i.activity.Log(job.SpaceID, job.ID, &principal.UserID, models.ActivityJobApproved, map[string]any{
			"prev_status": string(job.Status),
			"new_status":  string(newStatus),
			"level":       level,
		})
		return nil
	}

	// последний этап, запуск работы
	final := *job
	i.applyAssignment(&final, flow, now)
	updMap := map[string]interface{}{
		"status":       final.Status,
		"due_date":     final.DueDate,
		"original_due": final.OriginalDue,
	}
	if final.AssigneeID != nil {
		updMap["assignee_id"] = *final.AssigneeID
		updMap["started_at"] = now
	}
	updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, job.Status, updMap)
	if err != nil {
		return err
	}
	if !updated {
		return models.NewAlreadyProcessedError("работа уже обработана")
	}
	if !quorumApplied {
		i.decidePending(*job, level, principal.UserID, models.AStatusApproved, decision, now)
	}
	i.activity.Log(job.SpaceID, job.ID, &principal.UserID, models.ActivityJobApproved, map[string]any{
		"prev_status": string(job.Status),
		"new_status":  string(final.Status),
		"level":       level,
	})
	approverName := i.approverName(principal)
	i.push.SendNotification(job.RequesterID, models.PushJobApproved, job.Name, approverName)
	i.afterAssignment(final, &principal.UserID)
	if job.IsParent {
		i.cascadeToChildren(*job, flow, now)
	}
	return nil
}

// approveForQuorum этап с правилом ALL: решение фиксируется за согласующим,
// этап продвигается только когда согласовали все. Замыкающий кворум голос
// закрывает pending запись этапа, промежуточные пишутся отдельными записями.
func (i impl) approveForQuorum(principal models.Principal, job dbmodels.Job, level int, approverIDs []string, decision jobapimodels.ApprovalDecision, now time.Time) (done bool, err error) {
	existing, err := i.approvalStore.ListByJob(job.SpaceID, job.ID)
	if err != nil {
		return false, err
	}
	approvedBy := map[string]bool{}
	for _, rec := range existing {
		if rec.Level == level && rec.Status == models.AStatusApproved {
			if rec.ApproverID == principal.UserID {
				return false, models.NewAlreadyProcessedError("вы уже согласовали этот этап")
			}
			approvedBy[rec.ApproverID] = true
		}
	}
	approvedBy[principal.UserID] = true
	done = true
	for _, approverID := range approverIDs {
		if !approvedBy[approverID] {
			done = false
			break
		}
	}
	if done {
		i.decidePending(job, level, principal.UserID, models.AStatusApproved, decision, now)
	} else {
		i.writeApproval(job, level, principal.UserID, models.AStatusApproved, decision.Comment, decision.IP, decision.UserAgent, now)
	}
	return done, nil
}

// cascadeToChildren запуск дочерних работ, ожидавших согласования родительской
func (i impl) cascadeToChildren(parent dbmodels.Job, flow *dbmodels.ApprovalFlow, now time.Time) {
	logger := i.getLogger(parent.SpaceID, parent.ID)
	children, err := i.jobStore.ListChildren(parent.SpaceID, parent.ID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения дочерних работ")
		return
	}
	for _, child := range children {
		if child.Status != models.JobStatusApproved || child.AssigneeID != nil {
			continue
		}
		final := child
		i.applyAssignment(&final, flow, now)
		updMap := map[string]interface{}{
			"status":       final.Status,
			"due_date":     final.DueDate,
			"original_due": final.OriginalDue,
		}
		if final.AssigneeID != nil {
			updMap["assignee_id"] = *final.AssigneeID
			updMap["started_at"] = now
		}
		updated, err := i.jobStore.UpdateWithStatus(child.SpaceID, child.ID, models.JobStatusApproved, updMap)
		if err != nil {
			logger.WithField("child_job_id", child.ID).
				WithError(err).
				Error("ошибка запуска дочерней работы")
			continue
		}
		if !updated {
			continue
		}
		i.activity.Log(child.SpaceID, child.ID, nil, models.ActivityJobApprovedCascade, map[string]any{
			"parent_id":  parent.ID,
			"new_status": string(final.Status),
		})
		i.afterAssignment(final, nil)
	}
}

func (i impl) Reject(principal models.Principal, jobID string, decision jobapimodels.ApprovalDecision) error {
	if decision.Comment == "" {
		return models.NewValidationError("при отклонении работы требуется указать комментарий")
	}
	job, _, level, err := i.getForApproval(principal, jobID)
	if err != nil {
		return err
	}
	now := i.nowFn()
	updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, job.Status, map[string]interface{}{
		"status": models.JobStatusRejected,
	})
	if err != nil {
		return err
	}
	if !updated {
		return models.NewAlreadyProcessedError("работа уже обработана")
	}
	i.decidePending(*job, level, principal.UserID, models.AStatusRejected, decision, now)
	i.activity.Log(job.SpaceID, job.ID, &principal.UserID, models.ActivityJobRejected, map[string]any{
		"prev_status": string(job.Status),
		"new_status":  string(models.JobStatusRejected),
		"level":       level,
		"comment":     decision.Comment,
	})
	approverName := i.approverName(principal)
	i.push.SendNotification(job.RequesterID, models.PushJobRejected, job.Name, approverName, decision.Comment)

	reason := fmt.Sprintf("отклонена работа %v", job.Code)
	if err := i.chain.CancelChainedJobs(*job, &principal.UserID, reason); err != nil {
		i.getLogger(job.SpaceID, job.ID).WithError(err).Error("ошибка каскадной отмены последователей")
	}
	if job.IsParent {
		// дочерние работы не отменяются, исполнители только уведомляются
		i.notifyChildrenOnParentReject(*job)
	}
	if job.ParentID != nil {
		if err := i.chain.CheckParentJobClosure(job.SpaceID, *job.ParentID); err != nil {
			i.getLogger(job.SpaceID, job.ID).WithError(err).Error("ошибка закрытия родительской работы")
		}
	}
	return nil
}

func (i impl) notifyChildrenOnParentReject(parent dbmodels.Job) {
	children, err := i.jobStore.ListChildren(parent.SpaceID, parent.ID)
	if err != nil {
		i.getLogger(parent.SpaceID, parent.ID).WithError(err).Error("ошибка получения дочерних работ")
		return
	}
	for _, child := range children {
		if child.Status.IsTerminal() {
			continue
		}
		if assigneeID := child.AssigneeOrEmpty(); assigneeID != "" {
			i.push.SendNotification(assigneeID, models.PushParentJobRejected, parent.Name, child.Name)
		}
	}
}

func (i impl) Assign(principal models.Principal, jobID, assigneeID string) error {
	if assigneeID == "" {
		return models.NewValidationError("не указан исполнитель")
	}
	job, err := i.jobStore.GetByID(principal.SpaceID, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return models.NewNotFoundError("работа не найдена")
	}
	if job.Status != models.JobStatusApproved {
		return models.NewValidationError("назначение доступно только для согласованной работы без исполнителя")
	}
	now := i.nowFn()
	updMap := map[string]interface{}{
		"status":      models.JobStatusInProgress,
		"assignee_id": assigneeID,
		"started_at":  now,
	}
	if job.DueDate == nil {
		dueDate := calendar.AddWorkingDays(now, job.SlaDays)
		updMap["due_date"] = dueDate
		updMap["original_due"] = dueDate
	}
	updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, models.JobStatusApproved, updMap)
	if err != nil {
		return err
	}
	if !updated {
		return models.NewAlreadyProcessedError("работа уже обработана")
	}
	i.activity.Log(job.SpaceID, job.ID, &principal.UserID, models.ActivityJobAssigned, map[string]any{
		"assignee_id": assigneeID,
		"manual":      true,
	})
	dueDate := ""
	if job.DueDate != nil {
		dueDate = job.DueDate.Format("02.01.2006")
	} else if v, ok := updMap["due_date"].(time.Time); ok {
		dueDate = v.Format("02.01.2006")
	}
	i.push.SendNotification(assigneeID, models.PushJobAssigned, job.Name, dueDate)
	if job.Priority == models.JobPriorityUrgent {
		updatedJob, err := i.jobStore.GetByID(job.SpaceID, job.ID)
		if err == nil && updatedJob != nil {
			i.urgent.Reschedule(*updatedJob)
		}
	}
	return nil
}

func (i impl) Complete(principal models.Principal, jobID string) error {
	job, err := i.jobStore.GetByID(principal.SpaceID, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return models.NewNotFoundError("работа не найдена")
	}
	if job.AssigneeOrEmpty() != principal.UserID && !principal.IsSpaceAdmin() {
		return models.NewValidationError("завершить работу может только её исполнитель")
	}
	if job.Status != models.JobStatusInProgress && job.Status != models.JobStatusRework {
		return models.NewValidationError("завершить можно только работу в производстве")
	}
	now := i.nowFn()
	updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, job.Status, map[string]interface{}{
		"status":       models.JobStatusCompleted,
		"completed_at": now,
	})
	if err != nil {
		return err
	}
	if !updated {
		return models.NewAlreadyProcessedError("работа уже обработана")
	}
	i.activity.Log(job.SpaceID, job.ID, &principal.UserID, models.ActivityJobCompleted, map[string]any{
		"prev_status": string(job.Status),
		"new_status":  string(models.JobStatusCompleted),
	})
	assigneeName := principal.UserID
	if job.Assignee != nil {
		assigneeName = job.Assignee.GetFullName()
	}
	i.push.SendNotification(job.RequesterID, models.PushJobCompleted, job.Name, assigneeName)

	completedJob := *job
	completedJob.Status = models.JobStatusCompleted
	if err := i.chain.OnJobCompleted(completedJob); err != nil {
		i.getLogger(job.SpaceID, job.ID).WithError(err).Error("ошибка разблокировки последователей")
	}
	if job.ParentID != nil {
		if err := i.chain.CheckParentJobClosure(job.SpaceID, *job.ParentID); err != nil {
			i.getLogger(job.SpaceID, job.ID).WithError(err).Error("ошибка закрытия родительской работы")
		}
	}
	return nil
}

func (i impl) Cancel(principal models.Principal, jobID string, data jobapimodels.CancelData) error {
	job, err := i.jobStore.GetByID(principal.SpaceID, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return models.NewNotFoundError("работа не найдена")
	}
	if job.RequesterID != principal.UserID && !principal.IsSpaceAdmin() {
		return models.NewValidationError("отменить работу может только её инициатор")
	}
	if job.Status.IsTerminal() {
		return models.NewAlreadyProcessedError("работа уже закрыта")
	}
	updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, job.Status, map[string]interface{}{
		"status": models.JobStatusCancelled,
	})
	if err != nil {
		return err
	}
	if !updated {
		return models.NewAlreadyProcessedError("работа уже обработана")
	}
	i.activity.Log(job.SpaceID, job.ID, &principal.UserID, models.ActivityJobCancelled, map[string]any{
		"prev_status": string(job.Status),
		"new_status":  string(models.JobStatusCancelled),
		"reason":      data.Reason,
	})
	if assigneeID := job.AssigneeOrEmpty(); assigneeID != "" {
		i.push.SendNotification(assigneeID, models.PushJobCancelled, job.Name, data.Reason)
	}
	reason := fmt.Sprintf("отменена работа %v", job.Code)
	if err := i.chain.CancelChainedJobs(*job, &principal.UserID, reason); err != nil {
		i.getLogger(job.SpaceID, job.ID).WithError(err).Error("ошибка каскадной отмены последователей")
	}
	if job.IsParent {
		if err := i.chain.CancelChildJobs(*job, &principal.UserID, reason); err != nil {
			i.getLogger(job.SpaceID, job.ID).WithError(err).Error("ошибка отмены дочерних работ")
		}
	}
	if job.ParentID != nil {
		if err := i.chain.CheckParentJobClosure(job.SpaceID, *job.ParentID); err != nil {
			i.getLogger(job.SpaceID, job.ID).WithError(err).Error("ошибка закрытия родительской работы")
		}
	}
	return nil
}

func (i impl) ExtendDueDate(principal models.Principal, jobID string, data jobapimodels.ExtensionData) error {
	if err := data.Validate(); err != nil {
		return models.NewValidationError(err.Error())
	}
	job, err := i.jobStore.GetByID(principal.SpaceID, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return models.NewNotFoundError("работа не найдена")
	}
	if job.AssigneeOrEmpty() != principal.UserID && !principal.IsSpaceAdmin() {
		return models.NewValidationError("продлить срок может только исполнитель работы")
	}
	if job.Status != models.JobStatusInProgress && job.Status != models.JobStatusRework {
		return models.NewValidationError("продление доступно только по работе в производстве")
	}
	if job.DueDate == nil {
		return models.NewValidationError("у работы не установлен срок")
	}
	newDue := calendar.AddWorkingDays(*job.DueDate, data.Days)
	updMap := map[string]interface{}{
		"due_date":        newDue,
		"extension_count": job.ExtensionCount + 1,
	}
	if job.OriginalDue == nil {
		updMap["original_due"] = *job.DueDate
	}
	updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, job.Status, updMap)
	if err != nil {
		return err
	}
	if !updated {
		return models.NewAlreadyProcessedError("работа уже обработана")
	}
	i.activity.Log(job.SpaceID, job.ID, &principal.UserID, models.ActivityDueDateExtended, map[string]any{
		"prev_due_date": job.DueDate.Format("02.01.2006"),
		"new_due_date":  newDue.Format("02.01.2006"),
		"days":          data.Days,
		"reason":        data.Reason,
	})
	return nil
}

func (i impl) ListApprovals(spaceID, jobID string) (list []jobapimodels.ApprovalView, err error) {
	recList, err := i.approvalStore.ListByJob(spaceID, jobID)
	if err != nil {
		return nil, err
	}
	result := make([]jobapimodels.ApprovalView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, jobapimodels.ApprovalConvert(rec))
	}
	return result, nil
}

// getForApproval работа в статусе согласования и право текущего пользователя
// принимать решение на текущем этапе
func (i impl) getForApproval(principal models.Principal, jobID string) (*dbmodels.Job, *dbmodels.ApprovalFlow, int, error) {
	job, err := i.jobStore.GetByID(principal.SpaceID, jobID)
	if err != nil {
		return nil, nil, 0, err
	}
	if job == nil {
		return nil, nil, 0, models.NewNotFoundError("работа не найдена")
	}
	level, ok := job.Status.ApprovalLevel()
	if !ok {
		// работа вне согласования: решение по этапу уже принято
		return nil, nil, 0, models.NewAlreadyProcessedError("работа уже обработана")
	}
	var flow *dbmodels.ApprovalFlow
	if job.FlowID != nil {
		flow, err = i.flow.GetByID(job.SpaceID, *job.FlowID)
		if err != nil {
			return nil, nil, 0, err
		}
	}
	approverIDs, _ := approvalflowhandler.LevelApprovers(flow, level)
	if len(approverIDs) == 0 {
		// этап без явных согласующих, решение за администратором пространства
		if !principal.IsSpaceAdmin() {
			return nil, nil, 0, models.NewValidationError("решение по этапу доступно администратору пространства")
		}
		return job, flow, level, nil
	}
	if !approvalflowhandler.IsApprover(flow, level, principal.UserID) && !principal.IsSpaceAdmin() {
		return nil, nil, 0, models.NewValidationError("вы не входите в согласующие текущего этапа")
	}
	return job, flow, level, nil
}

// decidePending фиксация решения в pending записи этапа,
// при её отсутствии создаётся новая запись с решением
func (i impl) decidePending(job dbmodels.Job, level int, approverID string, status models.ApprovalStatus, decision jobapimodels.ApprovalDecision, now time.Time) {
	logger := i.getLogger(job.SpaceID, job.ID)
	pending, err := i.approvalStore.GetPending(job.SpaceID, job.ID, level)
	if err != nil {
		logger.WithError(err).Error("ошибка получения записи согласования")
		return
	}
	if pending == nil {
		i.writeApproval(job, level, approverID, status, decision.Comment, decision.IP, decision.UserAgent, now)
		return
	}
	err = i.approvalStore.Update(job.SpaceID, pending.ID, map[string]interface{}{
		"status":      status,
		"approver_id": approverID,
		"comment":     decision.Comment,
		"ip":          decision.IP,
		"user_agent":  decision.UserAgent,
		"decided_at":  now,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка обновления записи согласования")
	}
}

func (i impl) createPendingApproval(job dbmodels.Job, level int) {
	_, err := i.approvalStore.Create(dbmodels.Approval{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: job.SpaceID,
		},
		JobID:  job.ID,
		Level:  level,
		Status: models.AStatusPending,
	})
	if err != nil {
		i.getLogger(job.SpaceID, job.ID).WithError(err).Error("ошибка создания записи согласования этапа")
	}
}

func (i impl) writeApproval(job dbmodels.Job, level int, approverID string, status models.ApprovalStatus, comment, ip, userAgent string, now time.Time) {
	_, err := i.approvalStore.Create(dbmodels.Approval{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: job.SpaceID,
		},
		JobID:      job.ID,
		Level:      level,
		ApproverID: approverID,
		Status:     status,
		Comment:    comment,
		IP:         ip,
		UserAgent:  userAgent,
		DecidedAt:  &now,
	})
	if err != nil {
		i.getLogger(job.SpaceID, job.ID).WithError(err).Error("ошибка записи решения согласования")
	}
}

func (i impl) approverName(principal models.Principal) string {
	user, err := i.usersStore.GetByID(principal.UserID)
	if err != nil || user == nil {
		return principal.Role.ToHuman()
	}
	return user.GetFullName()
}

func newJobCode() string {
	return fmt.Sprintf("J-%s", strings.ToUpper(uuid.NewString()[:8]))
}
