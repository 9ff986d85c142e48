package urgenthandler

import (
	"time"

	"creative-tools-backend/config"
	"creative-tools-backend/db"
	activityloghandler "creative-tools-backend/lib/activity-log"
	"creative-tools-backend/lib/calendar"
	jobstore "creative-tools-backend/lib/job/store"
	pushhandler "creative-tools-backend/lib/space/push/handler"
	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Reschedule сдвиг сроков конкурирующих работ исполнителя в пользу срочной.
	// Лучшее из возможного: ошибка по отдельной работе логируется и не
	// останавливает обработку остальных.
	Reschedule(urgentJob dbmodels.Job)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		jobStore:  jobstore.NewInstance(db.DB),
		shiftDays: config.Conf.Engine.UrgentShiftDays,
		nowFn:     time.Now,
	}
}

type impl struct {
	jobStore  jobstore.Provider
	shiftDays int
	nowFn     func() time.Time
}

func (i impl) Reschedule(urgentJob dbmodels.Job) {
	logger := log.
		WithField("space_id", urgentJob.SpaceID).
		WithField("job_id", urgentJob.ID)
	assigneeID := urgentJob.AssigneeOrEmpty()
	if assigneeID == "" || urgentJob.DueDate == nil {
		return
	}
	from := urgentJob.DueDate.AddDate(0, 0, -i.shiftDays)
	to := urgentJob.DueDate.AddDate(0, 0, i.shiftDays)
	// уже начатые работы не двигаются, сдвигаем только ожидающие старта
	excluded := []models.JobStatus{
		models.JobStatusCompleted,
		models.JobStatusPartiallyCompleted,
		models.JobStatusRejected,
		models.JobStatusRejectedByAssignee,
		models.JobStatusCancelled,
		models.JobStatusInProgress,
		models.JobStatusRework,
	}
	competing, err := i.jobStore.ListCompeting(urgentJob.SpaceID, assigneeID, from, to, excluded)
	if err != nil {
		logger.WithError(err).Error("ошибка поиска конкурирующих работ")
		return
	}
	for _, job := range competing {
		if job.ID == urgentJob.ID || job.Priority == models.JobPriorityUrgent {
			continue
		}
		if err := i.shiftJob(job); err != nil {
			logger.WithField("shifted_job_id", job.ID).
				WithError(err).
				Error("ошибка сдвига срока конкурирующей работы")
		}
	}
}

func (i impl) shiftJob(job dbmodels.Job) error {
	newDue := calendar.AddWorkingDays(*job.DueDate, i.shiftDays)
	updMap := map[string]interface{}{
		"due_date": newDue,
	}
	if job.OriginalDue == nil {
		updMap["original_due"] = *job.DueDate
	}
	updated, err := i.jobStore.UpdateWithStatus(job.SpaceID, job.ID, job.Status, updMap)
	if err != nil {
		return err
	}
	if !updated {
		// статус изменился под руками, сдвиг этой работы пропускаем
		return nil
	}
	activityloghandler.Instance.Log(job.SpaceID, job.ID, nil, models.ActivityDueDateShifted, map[string]any{
		"prev_due_date": job.DueDate.Format("02.01.2006"),
		"new_due_date":  newDue.Format("02.01.2006"),
		"shift_days":    i.shiftDays,
	})
	if assigneeID := job.AssigneeOrEmpty(); assigneeID != "" {
		pushhandler.Instance.SendNotification(assigneeID, models.PushJobDueDateShifted, job.Name, i.shiftDays)
	}
	// дочерние работы наследуют срок родительской
	children, err := i.jobStore.ListChildren(job.SpaceID, job.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if child.Status.IsTerminal() || child.DueDate == nil {
			continue
		}
		childDue := calendar.AddWorkingDays(*child.DueDate, i.shiftDays)
		childUpd := map[string]interface{}{
			"due_date": childDue,
		}
		if child.OriginalDue == nil {
			childUpd["original_due"] = *child.DueDate
		}
		_, err := i.jobStore.UpdateWithStatus(child.SpaceID, child.ID, child.Status, childUpd)
		if err != nil {
			log.WithField("job_id", child.ID).
				WithError(err).
				Error("ошибка сдвига срока дочерней работы")
			continue
		}
		activityloghandler.Instance.Log(child.SpaceID, child.ID, nil, models.ActivityDueDateShifted, map[string]any{
			"prev_due_date": child.DueDate.Format("02.01.2006"),
			"new_due_date":  childDue.Format("02.01.2006"),
			"shift_days":    i.shiftDays,
		})
	}
	return nil
}
