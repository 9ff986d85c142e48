package rejectionrequesthandler

import (
	"time"

	"creative-tools-backend/config"
	"creative-tools-backend/db"
	activityloghandler "creative-tools-backend/lib/activity-log"
	approvalflowstore "creative-tools-backend/lib/approval-flow/store"
	jobchainhandler "creative-tools-backend/lib/job-chain"
	jobstore "creative-tools-backend/lib/job/store"
	rejectionrequeststore "creative-tools-backend/lib/rejection-request/store"
	pushhandler "creative-tools-backend/lib/space/push/handler"
	"creative-tools-backend/models"
	jobapimodels "creative-tools-backend/models/api/job"
	dbmodels "creative-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Request запрос исполнителя на отказ от работы в производстве
	Request(principal models.Principal, jobID string, data jobapimodels.RejectionRequestData) (id string, err error)
	// Approve отказ согласован, работа уходит в терминальный статус с каскадами
	Approve(principal models.Principal, requestID string, data jobapimodels.RejectionDecisionData) error
	// Deny в отказе отказано, работа возвращается в производство,
	// исполнителю предлагается запросить продление срока
	Deny(principal models.Principal, requestID string, data jobapimodels.RejectionDecisionData) error
	ListByJob(spaceID, jobID string) (list []jobapimodels.RejectionRequestView, err error)
	// SweepExpired авто-согласование просроченных запросов, вызывается фоновой задачей
	SweepExpired() (processed int, err error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:          rejectionrequeststore.NewInstance(db.DB),
		jobStore:       jobstore.NewInstance(db.DB),
		flowStore:      approvalflowstore.NewInstance(db.DB),
		autoCloseHours: config.Conf.Engine.RejectionAutoCloseHours,
		nowFn:          time.Now,
	}
}

type impl struct {
	store          rejectionrequeststore.Provider
	jobStore       jobstore.Provider
	flowStore      approvalflowstore.Provider
	autoCloseHours int
	nowFn          func() time.Time
}

func (i impl) Request(principal models.Principal, jobID string, data jobapimodels.RejectionRequestData) (string, error) {
	if err := data.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	job, err := i.jobStore.GetByID(principal.SpaceID, jobID)
	if err != nil {
		return "", err
	}
	if job == nil {
		return "", models.NewNotFoundError("работа не найдена")
	}
	if job.AssigneeOrEmpty() != principal.UserID {
		return "", models.NewValidationError("запросить отказ может только исполнитель работы")
	}
	if !job.Status.AllowRejectionRequest() {
		return "", models.NewValidationError("отказ доступен только по работе в производстве")
	}
	pending, err := i.store.GetPendingByJob(principal.SpaceID, jobID)
	if err != nil {
		return "", err
	}
	if pending != nil {
		return "", models.NewValidationError("по работе уже есть нерассмотренный запрос отказа")
	}
	approverIDs, quorum, err := i.resolveApprovers(*job)
	if err != nil {
		return "", err
	}
	now := i.nowFn()
	updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, job.Status, map[string]interface{}{
		"status": models.JobStatusPendingRejection,
	})
	if err != nil {
		return "", err
	}
	if !updated {
		return "", models.NewAlreadyProcessedError("работа уже обработана")
	}
	rec := dbmodels.RejectionRequest{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: principal.SpaceID,
		},
		JobID:       jobID,
		RequesterID: principal.UserID,
		Reason:      data.Reason,
		ApproverIDs: approverIDs,
		Quorum:      quorum,
		Status:      models.RejectionStatusPending,
		AutoCloseAt: now.Add(time.Duration(i.autoCloseHours) * time.Hour),
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return "", err
	}
	activityloghandler.Instance.Log(principal.SpaceID, jobID, &principal.UserID, models.ActivityRejectionRequested, map[string]any{
		"prev_status": string(job.Status),
		"new_status":  string(models.JobStatusPendingRejection),
		"reason":      data.Reason,
		"request_id":  id,
	})
	requesterName := principal.UserID
	if job.Assignee != nil {
		requesterName = job.Assignee.GetFullName()
	}
	for _, approverID := range approverIDs {
		pushhandler.Instance.SendNotification(approverID, models.PushRejectionRequested, requesterName, job.Name, data.Reason)
	}
	return id, nil
}

// resolveApprovers согласующие запроса: первый этап согласования работы,
// при отсутствии настройки — инициатор работы
func (i impl) resolveApprovers(job dbmodels.Job) ([]string, models.QuorumRule, error) {
	if job.FlowID != nil {
		flow, err := i.flowStore.GetByID(job.SpaceID, *job.FlowID)
		if err != nil {
			return nil, "", err
		}
		if flow != nil {
			for _, level := range flow.Levels {
				if level.Level == 1 && len(level.ApproverIDs) > 0 {
					quorum := level.Quorum
					if quorum == "" {
						quorum = models.QuorumAny
					}
					return level.ApproverIDs, quorum, nil
				}
			}
		}
	}
	return []string{job.RequesterID}, models.QuorumAny, nil
}

func (i impl) Approve(principal models.Principal, requestID string, data jobapimodels.RejectionDecisionData) error {
	rec, job, err := i.getForDecision(principal, requestID)
	if err != nil {
		return err
	}
	now := i.nowFn()
	updated, err := i.store.UpdateWithStatus(principal.SpaceID, requestID, models.RejectionStatusPending, map[string]interface{}{
		"status":     models.RejectionStatusApproved,
		"decided_by": principal.UserID,
		"decided_at": now,
		"comment":    data.Comment,
	})
	if err != nil {
		return err
	}
	if !updated {
		return models.NewAlreadyProcessedError("запрос отказа уже рассмотрен")
	}
	i.finalizeApproved(*rec, job, &principal.UserID, models.ActivityRejectionApproved)
	return nil
}

func (i impl) Deny(principal models.Principal, requestID string, data jobapimodels.RejectionDecisionData) error {
	if data.Comment == "" {
		return models.NewValidationError("при отказе в запросе требуется указать причину")
	}
	rec, job, err := i.getForDecision(principal, requestID)
	if err != nil {
		return err
	}
	now := i.nowFn()
	updated, err := i.store.UpdateWithStatus(principal.SpaceID, requestID, models.RejectionStatusPending, map[string]interface{}{
		"status":     models.RejectionStatusDenied,
		"decided_by": principal.UserID,
		"decided_at": now,
		"comment":    data.Comment,
	})
	if err != nil {
		return err
	}
	if !updated {
		return models.NewAlreadyProcessedError("запрос отказа уже рассмотрен")
	}
	if job != nil {
		_, err = i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, models.JobStatusPendingRejection, map[string]interface{}{
			"status": models.JobStatusInProgress,
		})
		if err != nil {
			log.WithField("job_id", job.ID).
				WithError(err).
				Error("ошибка возврата работы в производство")
		}
	}
	activityloghandler.Instance.Log(principal.SpaceID, rec.JobID, &principal.UserID, models.ActivityRejectionDenied, map[string]any{
		"request_id": requestID,
		"comment":    data.Comment,
	})
	if job != nil {
		pushhandler.Instance.SendNotification(rec.RequesterID, models.PushRejectionDenied, job.Name, data.Comment)
	}
	return nil
}

func (i impl) getForDecision(principal models.Principal, requestID string) (*dbmodels.RejectionRequest, *dbmodels.Job, error) {
	rec, err := i.store.GetByID(principal.SpaceID, requestID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, models.NewNotFoundError("запрос отказа не найден")
	}
	if !i.isApprover(*rec, principal) {
		return nil, nil, models.NewValidationError("решение по запросу доступно только согласующим")
	}
	job, err := i.jobStore.GetByID(principal.SpaceID, rec.JobID)
	if err != nil {
		return nil, nil, err
	}
	return rec, job, nil
}

func (i impl) isApprover(rec dbmodels.RejectionRequest, principal models.Principal) bool {
	if principal.IsSpaceAdmin() {
		return true
	}
	for _, id := range rec.ApproverIDs {
		if id == principal.UserID {
			return true
		}
	}
	return false
}

// finalizeApproved общий финал для ручного и автоматического согласования отказа
func (i impl) finalizeApproved(rec dbmodels.RejectionRequest, job *dbmodels.Job, actorID *string, action string) {
	logger := log.
		WithField("space_id", rec.SpaceID).
		WithField("job_id", rec.JobID)
	if job != nil {
		updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, models.JobStatusPendingRejection, map[string]interface{}{
			"status": models.JobStatusRejectedByAssignee,
		})
		if err != nil {
			logger.WithError(err).Error("ошибка перевода работы в отказ исполнителя")
			return
		}
		if updated {
			reason := "отказ исполнителя"
			if err := jobchainhandler.Instance.CancelChainedJobs(*job, actorID, reason); err != nil {
				logger.WithError(err).Error("ошибка каскадной отмены последователей")
			}
			if job.IsParent {
				if err := jobchainhandler.Instance.CancelChildJobs(*job, actorID, reason); err != nil {
					logger.WithError(err).Error("ошибка отмены дочерних работ")
				}
			}
			if job.ParentID != nil {
				if err := jobchainhandler.Instance.CheckParentJobClosure(job.SpaceID, *job.ParentID); err != nil {
					logger.WithError(err).Error("ошибка закрытия родительской работы")
				}
			}
		}
	}
	activityloghandler.Instance.Log(rec.SpaceID, rec.JobID, actorID, action, map[string]any{
		"request_id": rec.ID,
	})
	if job != nil {
		pushhandler.Instance.SendNotification(rec.RequesterID, models.PushRejectionApproved, job.Name)
	}
}

func (i impl) ListByJob(spaceID, jobID string) (list []jobapimodels.RejectionRequestView, err error) {
	recList, err := i.store.ListByJob(spaceID, jobID)
	if err != nil {
		return nil, err
	}
	result := make([]jobapimodels.RejectionRequestView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, jobapimodels.RejectionRequestConvert(rec))
	}
	return result, nil
}

func (i impl) SweepExpired() (processed int, err error) {
	now := i.nowFn()
	expired, err := i.store.ListExpired(now)
	if err != nil {
		return 0, err
	}
	for _, rec := range expired {
		updated, err := i.store.UpdateWithStatus(rec.SpaceID, rec.ID, models.RejectionStatusPending, map[string]interface{}{
			"status":     models.RejectionStatusAutoApproved,
			"decided_at": now,
			"comment":    "Согласовано автоматически: запрос не рассмотрен в срок",
		})
		if err != nil {
			log.WithField("request_id", rec.ID).
				WithError(err).
				Error("ошибка авто-согласования запроса отказа")
			continue
		}
		if !updated {
			// запрос успели рассмотреть вручную между выборкой и обновлением
			continue
		}
		job, err := i.jobStore.GetByID(rec.SpaceID, rec.JobID)
		if err != nil {
			log.WithField("request_id", rec.ID).
				WithError(err).
				Error("ошибка получения работы по запросу отказа")
			continue
		}
		i.finalizeApproved(rec, job, nil, models.ActivityRejectionAutoApproved)
		processed++
	}
	return processed, nil
}
