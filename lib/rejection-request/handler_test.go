package rejectionrequesthandler

import (
	"fmt"
	"testing"
	"time"

	activityloghandler "creative-tools-backend/lib/activity-log"
	jobchainhandler "creative-tools-backend/lib/job-chain"
	pushhandler "creative-tools-backend/lib/space/push/handler"
	"creative-tools-backend/models"
	jobapimodels "creative-tools-backend/models/api/job"
	dbmodels "creative-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeRejectionStore struct {
	records map[string]*dbmodels.RejectionRequest
	created int
}

func (f *fakeRejectionStore) Create(rec dbmodels.RejectionRequest) (string, error) {
	if rec.ID == "" {
		f.created++
		rec.ID = fmt.Sprintf("r%v", f.created)
	}
	if f.records == nil {
		f.records = map[string]*dbmodels.RejectionRequest{}
	}
	f.records[rec.ID] = &rec
	return rec.ID, nil
}
func (f *fakeRejectionStore) GetByID(spaceID, id string) (*dbmodels.RejectionRequest, error) {
	return f.records[id], nil
}
func (f *fakeRejectionStore) GetPendingByJob(spaceID, jobID string) (*dbmodels.RejectionRequest, error) {
	for _, rec := range f.records {
		if rec.JobID == jobID && rec.Status == models.RejectionStatusPending {
			return rec, nil
		}
	}
	return nil, nil
}
func (f *fakeRejectionStore) UpdateWithStatus(spaceID, id string, expected models.RejectionStatus, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.records[id]
	if !ok || rec.Status != expected {
		return false, nil
	}
	if status, ok := updMap["status"]; ok {
		rec.Status = status.(models.RejectionStatus)
	}
	return true, nil
}
func (f *fakeRejectionStore) ListByJob(spaceID, jobID string) ([]dbmodels.RejectionRequest, error) {
	result := []dbmodels.RejectionRequest{}
	for _, rec := range f.records {
		if rec.JobID == jobID {
			result = append(result, *rec)
		}
	}
	return result, nil
}
func (f *fakeRejectionStore) ListExpired(now time.Time) ([]dbmodels.RejectionRequest, error) {
	result := []dbmodels.RejectionRequest{}
	for _, rec := range f.records {
		if rec.Status == models.RejectionStatusPending && rec.AutoCloseAt.Before(now) {
			result = append(result, *rec)
		}
	}
	return result, nil
}

type fakeJobStore struct {
	jobs map[string]*dbmodels.Job
}

func (f *fakeJobStore) Create(rec dbmodels.Job) (string, error) { return rec.ID, nil }
func (f *fakeJobStore) GetByID(spaceID, id string) (*dbmodels.Job, error) {
	return f.jobs[id], nil
}
func (f *fakeJobStore) Update(spaceID, id string, updMap map[string]interface{}) error { return nil }
func (f *fakeJobStore) UpdateWithStatus(spaceID, id string, expected models.JobStatus, updMap map[string]interface{}) (bool, error) {
	job, ok := f.jobs[id]
	if !ok || job.Status != expected {
		return false, nil
	}
	if status, ok := updMap["status"]; ok {
		job.Status = status.(models.JobStatus)
	}
	return true, nil
}
func (f *fakeJobStore) List(spaceID string, filter jobapimodels.JobFilter) ([]dbmodels.Job, error) {
	return nil, nil
}
func (f *fakeJobStore) ListCount(spaceID string, filter jobapimodels.JobFilter) (int64, error) {
	return 0, nil
}
func (f *fakeJobStore) ListByPredecessor(spaceID, predecessorID string, status models.JobStatus) ([]dbmodels.Job, error) {
	return nil, nil
}
func (f *fakeJobStore) ListChildren(spaceID, parentID string) ([]dbmodels.Job, error) {
	return nil, nil
}
func (f *fakeJobStore) ListCompeting(spaceID, assigneeID string, from, to time.Time, excludeStatuses []models.JobStatus) ([]dbmodels.Job, error) {
	return nil, nil
}

type fakeFlowStore struct {
	flow *dbmodels.ApprovalFlow
}

func (f fakeFlowStore) Create(rec dbmodels.ApprovalFlow) (string, error) { return rec.ID, nil }
func (f fakeFlowStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}
func (f fakeFlowStore) Delete(spaceID, id string) error { return nil }
func (f fakeFlowStore) GetByID(spaceID, id string) (*dbmodels.ApprovalFlow, error) {
	return f.flow, nil
}
func (f fakeFlowStore) GetByScope(spaceID, projectID string, jobTypeID *string) (*dbmodels.ApprovalFlow, error) {
	return nil, nil
}
func (f fakeFlowStore) List(spaceID, projectID string) ([]dbmodels.ApprovalFlow, error) {
	return nil, nil
}

type fakeActivityLog struct{}

func (f fakeActivityLog) Log(spaceID, jobID string, actorID *string, action string, details map[string]any) {
}
func (f fakeActivityLog) ListByJob(spaceID, jobID string) ([]jobapimodels.ActivityView, error) {
	return nil, nil
}

type fakePush struct {
	sent int
}

func (f *fakePush) SendNotification(userID string, code models.SpacePushSettingCode, args ...any) {
	f.sent++
}
func (f *fakePush) NotifySpaceAdmins(spaceID string, code models.SpacePushSettingCode, args ...any) {}

type fakeChain struct {
	cancelledChains int
	cancelledKids   int
	parentClosures  int
}

func (f *fakeChain) GetFullChain(spaceID, jobTypeID string) ([]dbmodels.JobType, error) {
	return nil, nil
}
func (f *fakeChain) ValidateChain(spaceID, jobTypeID string, nextJobTypeID *string) error {
	return nil
}
func (f *fakeChain) OnJobCompleted(job dbmodels.Job) error { return nil }
func (f *fakeChain) CancelChainedJobs(job dbmodels.Job, actorID *string, reason string) error {
	f.cancelledChains++
	return nil
}
func (f *fakeChain) CancelChildJobs(parent dbmodels.Job, actorID *string, reason string) error {
	f.cancelledKids++
	return nil
}
func (f *fakeChain) CheckParentJobClosure(spaceID, parentID string) error {
	f.parentClosures++
	return nil
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type env struct {
	store    *fakeRejectionStore
	jobStore *fakeJobStore
	chain    *fakeChain
	push     *fakePush
	handler  impl
}

func newEnv(flow *dbmodels.ApprovalFlow) *env {
	e := &env{
		store:    &fakeRejectionStore{records: map[string]*dbmodels.RejectionRequest{}},
		jobStore: &fakeJobStore{jobs: map[string]*dbmodels.Job{}},
		chain:    &fakeChain{},
		push:     &fakePush{},
	}
	activityloghandler.Instance = fakeActivityLog{}
	pushhandler.Instance = e.push
	jobchainhandler.Instance = e.chain
	e.handler = impl{
		store:          e.store,
		jobStore:       e.jobStore,
		flowStore:      fakeFlowStore{flow: flow},
		autoCloseHours: 24,
		nowFn:          func() time.Time { return testNow },
	}
	return e
}

func strPtr(value string) *string { return &value }

func assigneeJob(id string) *dbmodels.Job {
	return &dbmodels.Job{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: id}, SpaceID: "s1"},
		Name:           "Монтаж ролика",
		Status:         models.JobStatusInProgress,
		RequesterID:    "req",
		AssigneeID:     strPtr("worker"),
	}
}

func worker() models.Principal {
	return models.Principal{UserID: "worker", SpaceID: "s1", Role: models.SpaceExecutorRole}
}

func requireErrKind(t *testing.T, err error, kind models.ErrKind) {
	t.Helper()
	require.Error(t, err)
	actual, ok := models.GetErrKind(err)
	require.True(t, ok)
	require.Equal(t, kind, actual)
}

func TestRequest(t *testing.T) {
	t.Run(`исполнитель запрашивает отказ`, func(t *testing.T) {
		flowID := "f1"
		flow := &dbmodels.ApprovalFlow{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: flowID}, SpaceID: "s1"},
			Levels: dbmodels.ApprovalLevels{
				{Level: 1, ApproverIDs: []string{"lead"}, Quorum: models.QuorumAll},
			},
		}
		e := newEnv(flow)
		job := assigneeJob("j1")
		job.FlowID = &flowID
		e.jobStore.jobs["j1"] = job

		id, err := e.handler.Request(worker(), "j1", jobapimodels.RejectionRequestData{Reason: "нет исходников"})
		require.NoError(t, err)
		require.Equal(t, models.JobStatusPendingRejection, job.Status)
		rec := e.store.records[id]
		require.Equal(t, models.RejectionStatusPending, rec.Status)
		require.Equal(t, []string{"lead"}, []string(rec.ApproverIDs))
		require.Equal(t, models.QuorumAll, rec.Quorum)
		require.Equal(t, testNow.Add(24*time.Hour), rec.AutoCloseAt)
		require.Equal(t, 1, e.push.sent)
	})

	t.Run(`без настройки согласующим становится инициатор`, func(t *testing.T) {
		e := newEnv(nil)
		e.jobStore.jobs["j1"] = assigneeJob("j1")
		id, err := e.handler.Request(worker(), "j1", jobapimodels.RejectionRequestData{Reason: "нет исходников"})
		require.NoError(t, err)
		require.Equal(t, []string{"req"}, []string(e.store.records[id].ApproverIDs))
	})

	t.Run(`запросить может только исполнитель`, func(t *testing.T) {
		e := newEnv(nil)
		e.jobStore.jobs["j1"] = assigneeJob("j1")
		_, err := e.handler.Request(models.Principal{UserID: "stranger", SpaceID: "s1", Role: models.SpaceExecutorRole},
			"j1", jobapimodels.RejectionRequestData{Reason: "нет исходников"})
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`отказ доступен только по работе в производстве`, func(t *testing.T) {
		e := newEnv(nil)
		job := assigneeJob("j1")
		job.Status = models.JobStatusApproved
		e.jobStore.jobs["j1"] = job
		_, err := e.handler.Request(worker(), "j1", jobapimodels.RejectionRequestData{Reason: "нет исходников"})
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`второй запрос по работе запрещён`, func(t *testing.T) {
		e := newEnv(nil)
		e.jobStore.jobs["j1"] = assigneeJob("j1")
		_, err := e.handler.Request(worker(), "j1", jobapimodels.RejectionRequestData{Reason: "нет исходников"})
		require.NoError(t, err)
		// работа вернулась бы в производство только после решения
		e.jobStore.jobs["j1"].Status = models.JobStatusInProgress
		_, err = e.handler.Request(worker(), "j1", jobapimodels.RejectionRequestData{Reason: "повторно"})
		requireErrKind(t, err, models.ErrKindValidation)
	})
}

func TestDecision(t *testing.T) {
	seed := func(e *env) string {
		e.jobStore.jobs["j1"] = assigneeJob("j1")
		id, err := e.handler.Request(worker(), "j1", jobapimodels.RejectionRequestData{Reason: "нет исходников"})
		if err != nil {
			panic(err)
		}
		return id
	}
	approver := models.Principal{UserID: "req", SpaceID: "s1", Role: models.SpaceManagerRole}

	t.Run(`согласование переводит работу в отказ исполнителя`, func(t *testing.T) {
		e := newEnv(nil)
		id := seed(e)
		err := e.handler.Approve(approver, id, jobapimodels.RejectionDecisionData{Comment: "согласен"})
		require.NoError(t, err)
		require.Equal(t, models.RejectionStatusApproved, e.store.records[id].Status)
		require.Equal(t, models.JobStatusRejectedByAssignee, e.jobStore.jobs["j1"].Status)
		require.Equal(t, 1, e.chain.cancelledChains)
	})

	t.Run(`отклонение возвращает работу в производство`, func(t *testing.T) {
		e := newEnv(nil)
		id := seed(e)
		err := e.handler.Deny(approver, id, jobapimodels.RejectionDecisionData{Comment: "доделать"})
		require.NoError(t, err)
		require.Equal(t, models.RejectionStatusDenied, e.store.records[id].Status)
		require.Equal(t, models.JobStatusInProgress, e.jobStore.jobs["j1"].Status)
	})

	t.Run(`при отклонении комментарий обязателен`, func(t *testing.T) {
		e := newEnv(nil)
		id := seed(e)
		err := e.handler.Deny(approver, id, jobapimodels.RejectionDecisionData{})
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`решение доступно только согласующим`, func(t *testing.T) {
		e := newEnv(nil)
		id := seed(e)
		err := e.handler.Approve(models.Principal{UserID: "stranger", SpaceID: "s1", Role: models.SpaceExecutorRole},
			id, jobapimodels.RejectionDecisionData{})
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`повторное решение не проходит`, func(t *testing.T) {
		e := newEnv(nil)
		id := seed(e)
		require.NoError(t, e.handler.Approve(approver, id, jobapimodels.RejectionDecisionData{}))
		err := e.handler.Deny(approver, id, jobapimodels.RejectionDecisionData{Comment: "передумал"})
		requireErrKind(t, err, models.ErrKindAlreadyProcessed)
	})
}

func TestSweepExpired(t *testing.T) {
	t.Run(`просроченный запрос согласуется автоматически`, func(t *testing.T) {
		e := newEnv(nil)
		e.jobStore.jobs["j1"] = assigneeJob("j1")
		id, err := e.handler.Request(worker(), "j1", jobapimodels.RejectionRequestData{Reason: "нет исходников"})
		require.NoError(t, err)
		e.store.records[id].AutoCloseAt = testNow.Add(-time.Hour)

		processed, err := e.handler.SweepExpired()
		require.NoError(t, err)
		require.Equal(t, 1, processed)
		require.Equal(t, models.RejectionStatusAutoApproved, e.store.records[id].Status)
		require.Equal(t, models.JobStatusRejectedByAssignee, e.jobStore.jobs["j1"].Status)
	})

	t.Run(`нерассмотренный в срок запрос не трогается`, func(t *testing.T) {
		e := newEnv(nil)
		e.jobStore.jobs["j1"] = assigneeJob("j1")
		id, err := e.handler.Request(worker(), "j1", jobapimodels.RejectionRequestData{Reason: "нет исходников"})
		require.NoError(t, err)

		processed, err := e.handler.SweepExpired()
		require.NoError(t, err)
		require.Equal(t, 0, processed)
		require.Equal(t, models.RejectionStatusPending, e.store.records[id].Status)
	})

	t.Run(`повторный проход ничего не находит`, func(t *testing.T) {
		e := newEnv(nil)
		e.jobStore.jobs["j1"] = assigneeJob("j1")
		id, err := e.handler.Request(worker(), "j1", jobapimodels.RejectionRequestData{Reason: "нет исходников"})
		require.NoError(t, err)
		e.store.records[id].AutoCloseAt = testNow.Add(-time.Hour)

		processed, err := e.handler.SweepExpired()
		require.NoError(t, err)
		require.Equal(t, 1, processed)
		processed, err = e.handler.SweepExpired()
		require.NoError(t, err)
		require.Equal(t, 0, processed)
	})
}
