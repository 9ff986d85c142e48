package jobhandler

import (
	"fmt"
	"testing"
	"time"

	autoassignhandler "creative-tools-backend/lib/auto-assign"
	"creative-tools-backend/models"
	flowapimodels "creative-tools-backend/models/api/flow"
	jobapimodels "creative-tools-backend/models/api/job"
	dbmodels "creative-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeJobStore struct {
	jobs    map[string]*dbmodels.Job
	created int
}

func (f *fakeJobStore) Create(rec dbmodels.Job) (string, error) {
	if rec.ID == "" {
		f.created++
		rec.ID = fmt.Sprintf("j%v", f.created)
	}
	if f.jobs == nil {
		f.jobs = map[string]*dbmodels.Job{}
	}
	f.jobs[rec.ID] = &rec
	return rec.ID, nil
}
func (f *fakeJobStore) GetByID(spaceID, id string) (*dbmodels.Job, error) {
	return f.jobs[id], nil
}
func (f *fakeJobStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	job, ok := f.jobs[id]
	if !ok {
		return nil
	}
	if next, ok := updMap["next_job_id"]; ok {
		value := next.(string)
		job.NextJobID = &value
	}
	return nil
}
func (f *fakeJobStore) UpdateWithStatus(spaceID, id string, expected models.JobStatus, updMap map[string]interface{}) (bool, error) {
	job, ok := f.jobs[id]
	if !ok || job.Status != expected {
		return false, nil
	}
	if status, ok := updMap["status"]; ok {
		job.Status = status.(models.JobStatus)
	}
	if assignee, ok := updMap["assignee_id"]; ok {
		value := assignee.(string)
		job.AssigneeID = &value
	}
	if due, ok := updMap["due_date"]; ok {
		switch value := due.(type) {
		case time.Time:
			job.DueDate = &value
		case *time.Time:
			job.DueDate = value
		}
	}
	if count, ok := updMap["extension_count"]; ok {
		job.ExtensionCount = count.(int)
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
	result := []dbmodels.Job{}
	for _, job := range f.jobs {
		if job.ParentID != nil && *job.ParentID == parentID {
			result = append(result, *job)
		}
	}
	return result, nil
}
func (f *fakeJobStore) ListCompeting(spaceID, assigneeID string, from, to time.Time, excludeStatuses []models.JobStatus) ([]dbmodels.Job, error) {
	return nil, nil
}

type fakeApprovalStore struct {
	records []dbmodels.Approval
}

func (f *fakeApprovalStore) Create(rec dbmodels.Approval) (string, error) {
	rec.ID = fmt.Sprintf("a%v", len(f.records)+1)
	f.records = append(f.records, rec)
	return rec.ID, nil
}
func (f *fakeApprovalStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	for n := range f.records {
		if f.records[n].ID != id {
			continue
		}
		if status, ok := updMap["status"]; ok {
			f.records[n].Status = status.(models.ApprovalStatus)
		}
		if approver, ok := updMap["approver_id"]; ok {
			f.records[n].ApproverID = approver.(string)
		}
	}
	return nil
}
func (f *fakeApprovalStore) GetPending(spaceID, jobID string, level int) (*dbmodels.Approval, error) {
	for n := range f.records {
		rec := f.records[n]
		if rec.JobID == jobID && rec.Level == level && rec.Status == models.AStatusPending {
			return &rec, nil
		}
	}
	return nil, nil
}
func (f *fakeApprovalStore) ListByJob(spaceID, jobID string) ([]dbmodels.Approval, error) {
	result := []dbmodels.Approval{}
	for _, rec := range f.records {
		if rec.JobID == jobID {
			result = append(result, rec)
		}
	}
	return result, nil
}

type fakeTypeStore struct {
	types map[string]*dbmodels.JobType
}

func (f fakeTypeStore) Create(rec dbmodels.JobType) (string, error)                  { return rec.ID, nil }
func (f fakeTypeStore) Update(spaceID, id string, updMap map[string]interface{}) error { return nil }
func (f fakeTypeStore) Delete(spaceID, id string) error                              { return nil }
func (f fakeTypeStore) GetByID(spaceID, id string) (*dbmodels.JobType, error) {
	return f.types[id], nil
}
func (f fakeTypeStore) List(spaceID string) ([]dbmodels.JobType, error) { return nil, nil }

type fakeProjectStore struct {
	projects map[string]*dbmodels.Project
}

func (f fakeProjectStore) Create(rec dbmodels.Project) (string, error)                  { return rec.ID, nil }
func (f fakeProjectStore) Update(spaceID, id string, updMap map[string]interface{}) error { return nil }
func (f fakeProjectStore) Delete(spaceID, id string) error                              { return nil }
func (f fakeProjectStore) GetByID(spaceID, id string) (*dbmodels.Project, error) {
	return f.projects[id], nil
}
func (f fakeProjectStore) List(spaceID string) ([]dbmodels.Project, error) { return nil, nil }
func (f fakeProjectStore) GetAssignment(spaceID, projectID, jobTypeID string) (*dbmodels.ProjectAssignment, error) {
	return nil, nil
}
func (f fakeProjectStore) SaveAssignment(rec dbmodels.ProjectAssignment) (string, error) {
	return "", nil
}
func (f fakeProjectStore) DeleteAssignment(spaceID, projectID, jobTypeID string) error { return nil }
func (f fakeProjectStore) ListAssignments(spaceID, projectID string) ([]dbmodels.ProjectAssignment, error) {
	return nil, nil
}

type fakeUsersStore struct{}

func (f fakeUsersStore) Create(rec dbmodels.SpaceUser) (string, error)             { return "", nil }
func (f fakeUsersStore) Update(userID string, updMap map[string]interface{}) error { return nil }
func (f fakeUsersStore) Delete(userID string) error                                { return nil }
func (f fakeUsersStore) GetList(spaceID string, page, limit int) ([]dbmodels.SpaceUser, error) {
	return nil, nil
}
func (f fakeUsersStore) FindByEmail(email string) (*dbmodels.SpaceUser, error)   { return nil, nil }
func (f fakeUsersStore) GetByID(userID string) (*dbmodels.SpaceUser, error)      { return nil, nil }
func (f fakeUsersStore) ListAdmins(spaceID string) ([]dbmodels.SpaceUser, error) { return nil, nil }

type fakeFlowHandler struct {
	flow *dbmodels.ApprovalFlow
}

func (f fakeFlowHandler) Resolve(spaceID, projectID, jobTypeID string) (*dbmodels.ApprovalFlow, error) {
	return f.flow, nil
}
func (f fakeFlowHandler) GetByID(spaceID, id string) (*dbmodels.ApprovalFlow, error) {
	return f.flow, nil
}
func (f fakeFlowHandler) Save(spaceID string, data flowapimodels.FlowData) (string, string, error) {
	return "", "", nil
}
func (f fakeFlowHandler) Delete(spaceID, id string) error { return nil }
func (f fakeFlowHandler) List(spaceID, projectID string) ([]flowapimodels.FlowView, error) {
	return nil, nil
}

type fakeAutoAssign struct {
	result autoassignhandler.Result
}

func (f fakeAutoAssign) Resolve(job dbmodels.Job, flow *dbmodels.ApprovalFlow) (autoassignhandler.Result, error) {
	return f.result, nil
}

type fakeChain struct {
	chain            []dbmodels.JobType
	completedCalls   int
	cancelledChains  int
	cancelledKids    int
	parentClosures   int
}

func (f *fakeChain) GetFullChain(spaceID, jobTypeID string) ([]dbmodels.JobType, error) {
	return f.chain, nil
}
func (f *fakeChain) ValidateChain(spaceID, jobTypeID string, nextJobTypeID *string) error {
	return nil
}
func (f *fakeChain) OnJobCompleted(job dbmodels.Job) error {
	f.completedCalls++
	return nil
}
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

type fakeUrgent struct {
	rescheduled int
}

func (f *fakeUrgent) Reschedule(urgentJob dbmodels.Job) { f.rescheduled++ }

type fakeActivityLog struct{}

func (f fakeActivityLog) Log(spaceID, jobID string, actorID *string, action string, details map[string]any) {
}
func (f fakeActivityLog) ListByJob(spaceID, jobID string) ([]jobapimodels.ActivityView, error) {
	return nil, nil
}

type fakePush struct {
	sent          int
	adminNotifies int
}

func (f *fakePush) SendNotification(userID string, code models.SpacePushSettingCode, args ...any) {
	f.sent++
}
func (f *fakePush) NotifySpaceAdmins(spaceID string, code models.SpacePushSettingCode, args ...any) {
	f.adminNotifies++
}

type env struct {
	jobStore  *fakeJobStore
	approvals *fakeApprovalStore
	chain     *fakeChain
	urgent    *fakeUrgent
	push      *fakePush
	handler   impl
}

// понедельник, срок в два рабочих дня попадает на среду
var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newEnv(flow *dbmodels.ApprovalFlow, assign autoassignhandler.Result) *env {
	e := &env{
		jobStore:  &fakeJobStore{jobs: map[string]*dbmodels.Job{}},
		approvals: &fakeApprovalStore{},
		chain:     &fakeChain{},
		urgent:    &fakeUrgent{},
		push:      &fakePush{},
	}
	e.handler = impl{
		jobStore:      e.jobStore,
		approvalStore: e.approvals,
		typeStore: fakeTypeStore{types: map[string]*dbmodels.JobType{
			"t1": {BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "t1"}, SpaceID: "s1"}, Name: "Монтаж", SlaDays: 2},
		}},
		projectStore: fakeProjectStore{projects: map[string]*dbmodels.Project{
			"p1": {BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "p1"}, SpaceID: "s1"}, Name: "Ролик"},
		}},
		usersStore: fakeUsersStore{},
		flow:       fakeFlowHandler{flow: flow},
		autoAssign: fakeAutoAssign{result: assign},
		chain:      e.chain,
		urgent:     e.urgent,
		activity:   fakeActivityLog{},
		push:       e.push,
		nowFn:      func() time.Time { return testNow },
	}
	return e
}

func requester() models.Principal {
	return models.Principal{UserID: "req", SpaceID: "s1", Role: models.SpaceManagerRole}
}

func admin() models.Principal {
	return models.Principal{UserID: "boss", SpaceID: "s1", Role: models.SpaceAdminRole}
}

func createData() jobapimodels.JobCreateData {
	return jobapimodels.JobCreateData{
		ProjectID: "p1",
		JobTypeID: "t1",
		Name:      "Монтаж ролика",
		Priority:  models.JobPriorityNormal,
	}
}

func flowWithLevels(levels ...dbmodels.ApprovalLevel) *dbmodels.ApprovalFlow {
	return &dbmodels.ApprovalFlow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "f1"}, SpaceID: "s1"},
		ProjectID:      "p1",
		Levels:         levels,
	}
}

func requireErrKind(t *testing.T, err error, kind models.ErrKind) {
	t.Helper()
	require.Error(t, err)
	actual, ok := models.GetErrKind(err)
	require.True(t, ok)
	require.Equal(t, kind, actual)
}

func TestCreate(t *testing.T) {
	t.Run(`валидация входных данных`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		data := createData()
		data.Name = ""
		_, err := e.handler.Create(requester(), data)
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`проект должен существовать`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		data := createData()
		data.ProjectID = "missing"
		_, err := e.handler.Create(requester(), data)
		requireErrKind(t, err, models.ErrKindNotFound)
	})

	t.Run(`без настройки работа уходит на согласование`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		id, err := e.handler.Create(requester(), createData())
		require.NoError(t, err)
		job := e.jobStore.jobs[id]
		require.Equal(t, models.JobStatusPendingApproval, job.Status)
		require.Equal(t, 2, job.SlaDays) // срок из вида работ
		require.NotEmpty(t, job.Code)
		// создана запись этапа в ожидании решения
		pending, err := e.approvals.GetPending("s1", id, 1)
		require.NoError(t, err)
		require.NotNil(t, pending)
	})

	t.Run(`пропуск согласования запускает работу сразу`, func(t *testing.T) {
		flow := flowWithLevels()
		flow.SkipApproval = true
		e := newEnv(flow, autoassignhandler.Result{AssigneeID: "worker", Resolved: true})
		id, err := e.handler.Create(requester(), createData())
		require.NoError(t, err)
		job := e.jobStore.jobs[id]
		require.Equal(t, models.JobStatusInProgress, job.Status)
		require.Equal(t, "worker", job.AssigneeOrEmpty())
		require.Equal(t, time.Date(2026, 6, 3, 12, 0, 0, 0, time.UTC), *job.DueDate)
		require.Equal(t, 1, e.push.sent)
	})

	t.Run(`без исполнителя работа остаётся согласованной`, func(t *testing.T) {
		flow := flowWithLevels()
		flow.SkipApproval = true
		e := newEnv(flow, autoassignhandler.Result{})
		id, err := e.handler.Create(requester(), createData())
		require.NoError(t, err)
		job := e.jobStore.jobs[id]
		require.Equal(t, models.JobStatusApproved, job.Status)
		require.Equal(t, 1, e.push.adminNotifies)
	})

	t.Run(`инициатор-согласующий единственного этапа`, func(t *testing.T) {
		flow := flowWithLevels(dbmodels.ApprovalLevel{Level: 1, ApproverIDs: []string{"req"}})
		e := newEnv(flow, autoassignhandler.Result{AssigneeID: "worker", Resolved: true})
		id, err := e.handler.Create(requester(), createData())
		require.NoError(t, err)
		job := e.jobStore.jobs[id]
		require.Equal(t, models.JobStatusInProgress, job.Status)
		require.Len(t, e.approvals.records, 1)
		require.Equal(t, models.AStatusApproved, e.approvals.records[0].Status)
		require.Equal(t, "req", e.approvals.records[0].ApproverID)
	})

	t.Run(`инициатор-согласующий при нескольких этапах`, func(t *testing.T) {
		flow := flowWithLevels(
			dbmodels.ApprovalLevel{Level: 1, ApproverIDs: []string{"req"}},
			dbmodels.ApprovalLevel{Level: 2, ApproverIDs: []string{"director"}},
		)
		e := newEnv(flow, autoassignhandler.Result{})
		id, err := e.handler.Create(requester(), createData())
		require.NoError(t, err)
		job := e.jobStore.jobs[id]
		require.Equal(t, models.PendingStatusByLevel(2), job.Status)
		pending, err := e.approvals.GetPending("s1", id, 2)
		require.NoError(t, err)
		require.NotNil(t, pending)
	})

	t.Run(`работа с активным предшественником ждёт его завершения`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		predecessor := &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "pred"}, SpaceID: "s1"},
			Status:         models.JobStatusInProgress,
		}
		e.jobStore.jobs["pred"] = predecessor
		data := createData()
		data.PredecessorID = "pred"
		id, err := e.handler.Create(requester(), data)
		require.NoError(t, err)
		job := e.jobStore.jobs[id]
		require.Equal(t, models.JobStatusPendingDependency, job.Status)
		require.Equal(t, "pred", *job.PredecessorID)
		require.Equal(t, id, *predecessor.NextJobID)
	})

	t.Run(`отклонённый предшественник запрещён`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["pred"] = &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "pred"}, SpaceID: "s1"},
			Status:         models.JobStatusRejected,
		}
		data := createData()
		data.PredecessorID = "pred"
		_, err := e.handler.Create(requester(), data)
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`дочерняя работа согласуется родительской`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["parent"] = &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "parent"}, SpaceID: "s1"},
			Status:         models.JobStatusPendingApproval,
			IsParent:       true,
		}
		data := createData()
		data.ParentID = "parent"
		id, err := e.handler.Create(requester(), data)
		require.NoError(t, err)
		require.Equal(t, models.JobStatusApproved, e.jobStore.jobs[id].Status)
	})

	t.Run(`планирование цепочки последователей`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.chain.chain = []dbmodels.JobType{
			{BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "t2"}, SpaceID: "s1"}, Name: "Цветокоррекция", SlaDays: 3},
		}
		data := createData()
		data.PlanChain = true
		id, err := e.handler.Create(requester(), data)
		require.NoError(t, err)
		head := e.jobStore.jobs[id]
		require.NotNil(t, head.NextJobID)
		successor := e.jobStore.jobs[*head.NextJobID]
		require.Equal(t, models.JobStatusPendingDependency, successor.Status)
		require.Equal(t, "t2", successor.JobTypeID)
		require.Equal(t, "Монтаж ролика — Цветокоррекция", successor.Name)
		require.Equal(t, 3, successor.SlaDays)
		require.Equal(t, id, *successor.PredecessorID)
	})
}

func TestApprove(t *testing.T) {
	pendingJob := func(status models.JobStatus) *dbmodels.Job {
		flowID := "f1"
		return &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "j1"}, SpaceID: "s1"},
			Name:           "Монтаж ролика",
			Status:         status,
			RequesterID:    "req",
			FlowID:         &flowID,
			SlaDays:        2,
		}
	}

	t.Run(`посторонний пользователь не согласует`, func(t *testing.T) {
		flow := flowWithLevels(dbmodels.ApprovalLevel{Level: 1, ApproverIDs: []string{"lead"}})
		e := newEnv(flow, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = pendingJob(models.JobStatusPendingApproval)
		err := e.handler.Approve(models.Principal{UserID: "stranger", SpaceID: "s1", Role: models.SpaceExecutorRole}, "j1", jobapimodels.ApprovalDecision{})
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`этап без согласующих решает администратор`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		job := pendingJob(models.JobStatusPendingApproval)
		job.FlowID = nil
		e.jobStore.jobs["j1"] = job
		err := e.handler.Approve(models.Principal{UserID: "stranger", SpaceID: "s1", Role: models.SpaceExecutorRole}, "j1", jobapimodels.ApprovalDecision{})
		requireErrKind(t, err, models.ErrKindValidation)
		require.NoError(t, e.handler.Approve(admin(), "j1", jobapimodels.ApprovalDecision{}))
	})

	t.Run(`последний этап запускает работу`, func(t *testing.T) {
		flow := flowWithLevels(dbmodels.ApprovalLevel{Level: 1, ApproverIDs: []string{"lead"}})
		e := newEnv(flow, autoassignhandler.Result{AssigneeID: "worker", Resolved: true})
		e.jobStore.jobs["j1"] = pendingJob(models.JobStatusPendingApproval)
		err := e.handler.Approve(models.Principal{UserID: "lead", SpaceID: "s1", Role: models.SpaceManagerRole}, "j1", jobapimodels.ApprovalDecision{Comment: "ок"})
		require.NoError(t, err)
		job := e.jobStore.jobs["j1"]
		require.Equal(t, models.JobStatusInProgress, job.Status)
		require.Equal(t, "worker", job.AssigneeOrEmpty())
		// уведомлены инициатор и исполнитель
		require.Equal(t, 2, e.push.sent)
	})

	t.Run(`промежуточный этап продвигает согласование`, func(t *testing.T) {
		flow := flowWithLevels(
			dbmodels.ApprovalLevel{Level: 1, ApproverIDs: []string{"lead"}},
			dbmodels.ApprovalLevel{Level: 2, ApproverIDs: []string{"director"}},
		)
		e := newEnv(flow, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = pendingJob(models.JobStatusPendingApproval)
		err := e.handler.Approve(models.Principal{UserID: "lead", SpaceID: "s1", Role: models.SpaceManagerRole}, "j1", jobapimodels.ApprovalDecision{})
		require.NoError(t, err)
		require.Equal(t, models.PendingStatusByLevel(2), e.jobStore.jobs["j1"].Status)
		pending, err := e.approvals.GetPending("s1", "j1", 2)
		require.NoError(t, err)
		require.NotNil(t, pending)
	})

	t.Run(`кворум ALL собирается по всем согласующим`, func(t *testing.T) {
		flow := flowWithLevels(dbmodels.ApprovalLevel{
			Level: 1, ApproverIDs: []string{"lead", "director"}, Quorum: models.QuorumAll,
		})
		e := newEnv(flow, autoassignhandler.Result{AssigneeID: "worker", Resolved: true})
		e.jobStore.jobs["j1"] = pendingJob(models.JobStatusPendingApproval)
		_, err := e.approvals.Create(dbmodels.Approval{JobID: "j1", Level: 1, Status: models.AStatusPending})
		require.NoError(t, err)

		lead := models.Principal{UserID: "lead", SpaceID: "s1", Role: models.SpaceManagerRole}
		require.NoError(t, e.handler.Approve(lead, "j1", jobapimodels.ApprovalDecision{}))
		// первый голос не меняет статус
		require.Equal(t, models.JobStatusPendingApproval, e.jobStore.jobs["j1"].Status)

		// повторное решение того же согласующего
		err = e.handler.Approve(lead, "j1", jobapimodels.ApprovalDecision{})
		requireErrKind(t, err, models.ErrKindAlreadyProcessed)

		director := models.Principal{UserID: "director", SpaceID: "s1", Role: models.SpaceManagerRole}
		require.NoError(t, e.handler.Approve(director, "j1", jobapimodels.ApprovalDecision{}))
		require.Equal(t, models.JobStatusInProgress, e.jobStore.jobs["j1"].Status)

		// по одной записи на согласующего: замыкающий голос закрывает
		// pending запись этапа, дубликатов решения нет
		records, err := e.approvals.ListByJob("s1", "j1")
		require.NoError(t, err)
		require.Len(t, records, 2)
		approvers := map[string]int{}
		for _, rec := range records {
			require.Equal(t, models.AStatusApproved, rec.Status)
			approvers[rec.ApproverID]++
		}
		require.Equal(t, map[string]int{"lead": 1, "director": 1}, approvers)
	})

	t.Run(`закрытая работа не согласуется повторно`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		job := pendingJob(models.JobStatusCancelled)
		job.FlowID = nil
		e.jobStore.jobs["j1"] = job
		err := e.handler.Approve(admin(), "j1", jobapimodels.ApprovalDecision{})
		requireErrKind(t, err, models.ErrKindAlreadyProcessed)
	})

	t.Run(`запущенная работа не согласуется повторно`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		job := pendingJob(models.JobStatusInProgress)
		job.FlowID = nil
		e.jobStore.jobs["j1"] = job
		err := e.handler.Approve(admin(), "j1", jobapimodels.ApprovalDecision{})
		requireErrKind(t, err, models.ErrKindAlreadyProcessed)
	})

	t.Run(`согласование родительской запускает дочерние`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{AssigneeID: "worker", Resolved: true})
		parent := pendingJob(models.JobStatusPendingApproval)
		parent.FlowID = nil
		parent.IsParent = true
		e.jobStore.jobs["j1"] = parent
		parentID := "j1"
		e.jobStore.jobs["child"] = &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "child"}, SpaceID: "s1"},
			Name:           "дочерняя",
			Status:         models.JobStatusApproved,
			ParentID:       &parentID,
			SlaDays:        1,
		}
		require.NoError(t, e.handler.Approve(admin(), "j1", jobapimodels.ApprovalDecision{}))
		child := e.jobStore.jobs["child"]
		require.Equal(t, models.JobStatusInProgress, child.Status)
		require.Equal(t, "worker", child.AssigneeOrEmpty())
	})
}

func TestReject(t *testing.T) {
	newJob := func() *dbmodels.Job {
		return &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "j1"}, SpaceID: "s1"},
			Name:           "Монтаж ролика",
			Code:           "J-1",
			Status:         models.JobStatusPendingApproval,
			RequesterID:    "req",
		}
	}

	t.Run(`комментарий обязателен`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = newJob()
		err := e.handler.Reject(admin(), "j1", jobapimodels.ApprovalDecision{})
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`отклонение отменяет последователей`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = newJob()
		err := e.handler.Reject(admin(), "j1", jobapimodels.ApprovalDecision{Comment: "переделать бриф"})
		require.NoError(t, err)
		require.Equal(t, models.JobStatusRejected, e.jobStore.jobs["j1"].Status)
		require.Equal(t, 1, e.chain.cancelledChains)
		// дочерние работы при отклонении родительской не отменяются
		require.Equal(t, 0, e.chain.cancelledKids)
	})
}

func TestAssign(t *testing.T) {
	t.Run(`назначение согласованной работы`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "j1"}, SpaceID: "s1"},
			Status:         models.JobStatusApproved,
			SlaDays:        2,
		}
		err := e.handler.Assign(admin(), "j1", "worker")
		require.NoError(t, err)
		job := e.jobStore.jobs["j1"]
		require.Equal(t, models.JobStatusInProgress, job.Status)
		require.Equal(t, "worker", job.AssigneeOrEmpty())
		require.Equal(t, time.Date(2026, 6, 3, 12, 0, 0, 0, time.UTC), *job.DueDate)
	})

	t.Run(`работа в производстве не переназначается`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "j1"}, SpaceID: "s1"},
			Status:         models.JobStatusInProgress,
		}
		err := e.handler.Assign(admin(), "j1", "worker")
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`срочная работа двигает конкурентов`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "j1"}, SpaceID: "s1"},
			Status:         models.JobStatusApproved,
			Priority:       models.JobPriorityUrgent,
			SlaDays:        1,
		}
		require.NoError(t, e.handler.Assign(admin(), "j1", "worker"))
		require.Equal(t, 1, e.urgent.rescheduled)
	})
}

func TestComplete(t *testing.T) {
	assignee := "worker"
	newJob := func() *dbmodels.Job {
		return &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "j1"}, SpaceID: "s1"},
			Status:         models.JobStatusInProgress,
			RequesterID:    "req",
			AssigneeID:     &assignee,
		}
	}

	t.Run(`исполнитель завершает работу`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = newJob()
		err := e.handler.Complete(models.Principal{UserID: "worker", SpaceID: "s1", Role: models.SpaceExecutorRole}, "j1")
		require.NoError(t, err)
		require.Equal(t, models.JobStatusCompleted, e.jobStore.jobs["j1"].Status)
		require.Equal(t, 1, e.chain.completedCalls)
	})

	t.Run(`посторонний пользователь не завершает`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = newJob()
		err := e.handler.Complete(models.Principal{UserID: "stranger", SpaceID: "s1", Role: models.SpaceExecutorRole}, "j1")
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`завершение дочерней проверяет родительскую`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		job := newJob()
		parentID := "parent"
		job.ParentID = &parentID
		e.jobStore.jobs["j1"] = job
		require.NoError(t, e.handler.Complete(admin(), "j1"))
		require.Equal(t, 1, e.chain.parentClosures)
	})
}

func TestCancel(t *testing.T) {
	newJob := func() *dbmodels.Job {
		return &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "j1"}, SpaceID: "s1"},
			Code:           "J-1",
			Status:         models.JobStatusPendingApproval,
			RequesterID:    "req",
		}
	}

	t.Run(`инициатор отменяет работу`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = newJob()
		err := e.handler.Cancel(requester(), "j1", jobapimodels.CancelData{Reason: "не актуально"})
		require.NoError(t, err)
		require.Equal(t, models.JobStatusCancelled, e.jobStore.jobs["j1"].Status)
		require.Equal(t, 1, e.chain.cancelledChains)
	})

	t.Run(`посторонний пользователь не отменяет`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = newJob()
		err := e.handler.Cancel(models.Principal{UserID: "stranger", SpaceID: "s1", Role: models.SpaceExecutorRole}, "j1", jobapimodels.CancelData{})
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`закрытая работа не отменяется`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		job := newJob()
		job.Status = models.JobStatusCompleted
		e.jobStore.jobs["j1"] = job
		err := e.handler.Cancel(requester(), "j1", jobapimodels.CancelData{})
		requireErrKind(t, err, models.ErrKindAlreadyProcessed)
	})

	t.Run(`отмена родительской отменяет дочерние`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		job := newJob()
		job.IsParent = true
		e.jobStore.jobs["j1"] = job
		require.NoError(t, e.handler.Cancel(requester(), "j1", jobapimodels.CancelData{}))
		require.Equal(t, 1, e.chain.cancelledKids)
	})
}

func TestExtendDueDate(t *testing.T) {
	assignee := "worker"
	// среда, продление на два рабочих дня попадает на пятницу
	due := time.Date(2026, 6, 3, 12, 0, 0, 0, time.UTC)
	newJob := func() *dbmodels.Job {
		return &dbmodels.Job{
			BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "j1"}, SpaceID: "s1"},
			Status:         models.JobStatusInProgress,
			AssigneeID:     &assignee,
			DueDate:        &due,
		}
	}

	t.Run(`продление от текущего срока`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = newJob()
		err := e.handler.ExtendDueDate(models.Principal{UserID: "worker", SpaceID: "s1", Role: models.SpaceExecutorRole},
			"j1", jobapimodels.ExtensionData{Days: 2, Reason: "ждём материалы"})
		require.NoError(t, err)
		job := e.jobStore.jobs["j1"]
		require.Equal(t, time.Date(2026, 6, 5, 12, 0, 0, 0, time.UTC), *job.DueDate)
		require.Equal(t, 1, job.ExtensionCount)
	})

	t.Run(`продление доступно только исполнителю`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = newJob()
		err := e.handler.ExtendDueDate(models.Principal{UserID: "stranger", SpaceID: "s1", Role: models.SpaceExecutorRole},
			"j1", jobapimodels.ExtensionData{Days: 2, Reason: "ждём материалы"})
		requireErrKind(t, err, models.ErrKindValidation)
	})

	t.Run(`валидация количества дней`, func(t *testing.T) {
		e := newEnv(nil, autoassignhandler.Result{})
		e.jobStore.jobs["j1"] = newJob()
		err := e.handler.ExtendDueDate(admin(), "j1", jobapimodels.ExtensionData{Days: 0, Reason: "x"})
		requireErrKind(t, err, models.ErrKindValidation)
	})
}
