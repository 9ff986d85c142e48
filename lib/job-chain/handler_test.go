package jobchainhandler

import (
	"testing"
	"time"

	activityloghandler "creative-tools-backend/lib/activity-log"
	autoassignhandler "creative-tools-backend/lib/auto-assign"
	pushhandler "creative-tools-backend/lib/space/push/handler"
	"creative-tools-backend/models"
	jobapimodels "creative-tools-backend/models/api/job"
	dbmodels "creative-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

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
	if assignee, ok := updMap["assignee_id"]; ok {
		value := assignee.(string)
		job.AssigneeID = &value
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
	result := []dbmodels.Job{}
	for _, job := range f.jobs {
		if job.PredecessorID != nil && *job.PredecessorID == predecessorID && job.Status == status {
			result = append(result, *job)
		}
	}
	return result, nil
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

type fakeTypeStore struct {
	types map[string]*dbmodels.JobType
}

func (f fakeTypeStore) Create(rec dbmodels.JobType) (string, error) { return rec.ID, nil }
func (f fakeTypeStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}
func (f fakeTypeStore) Delete(spaceID, id string) error { return nil }
func (f fakeTypeStore) GetByID(spaceID, id string) (*dbmodels.JobType, error) {
	return f.types[id], nil
}
func (f fakeTypeStore) List(spaceID string) ([]dbmodels.JobType, error) { return nil, nil }

type fakeApprovalStore struct {
	created []dbmodels.Approval
}

func (f *fakeApprovalStore) Create(rec dbmodels.Approval) (string, error) {
	f.created = append(f.created, rec)
	return rec.ID, nil
}
func (f *fakeApprovalStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}
func (f *fakeApprovalStore) GetPending(spaceID, jobID string, level int) (*dbmodels.Approval, error) {
	return nil, nil
}
func (f *fakeApprovalStore) ListByJob(spaceID, jobID string) ([]dbmodels.Approval, error) {
	return nil, nil
}

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

type fakeAutoAssign struct {
	result autoassignhandler.Result
}

func (f fakeAutoAssign) Resolve(job dbmodels.Job, flow *dbmodels.ApprovalFlow) (autoassignhandler.Result, error) {
	return f.result, nil
}

func newJobType(id string, nextID *string) *dbmodels.JobType {
	return &dbmodels.JobType{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   "s1",
		},
		Name:          id,
		SlaDays:       2,
		NextJobTypeID: nextID,
	}
}

func newJob(id string, status models.JobStatus) *dbmodels.Job {
	return &dbmodels.Job{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   "s1",
		},
		Name:        id,
		Status:      status,
		RequesterID: "req",
		SlaDays:     2,
	}
}

func strPtr(value string) *string {
	return &value
}

func newHandler(jobStore *fakeJobStore, typeStore fakeTypeStore, approvalStore *fakeApprovalStore) impl {
	return impl{
		jobStore:         jobStore,
		typeStore:        typeStore,
		approvalStore:    approvalStore,
		maxChainDepth:    3,
		preventSelfChain: true,
		nowFn: func() time.Time {
			return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) // понедельник
		},
	}
}

func initFakeInstances(resolved autoassignhandler.Result) {
	activityloghandler.Instance = fakeActivityLog{}
	pushhandler.Instance = &fakePush{}
	autoassignhandler.Instance = fakeAutoAssign{result: resolved}
}

func TestGetFullChain(t *testing.T) {
	t.Run(`последователи в порядке выполнения`, func(t *testing.T) {
		handler := newHandler(&fakeJobStore{}, fakeTypeStore{types: map[string]*dbmodels.JobType{
			"a": newJobType("a", strPtr("b")),
			"b": newJobType("b", strPtr("c")),
			"c": newJobType("c", nil),
		}}, &fakeApprovalStore{})
		chain, err := handler.GetFullChain("s1", "a")
		require.NoError(t, err)
		require.Len(t, chain, 2)
		require.Equal(t, "b", chain[0].ID)
		require.Equal(t, "c", chain[1].ID)
	})
	t.Run(`обход останавливается на цикле`, func(t *testing.T) {
		handler := newHandler(&fakeJobStore{}, fakeTypeStore{types: map[string]*dbmodels.JobType{
			"a": newJobType("a", strPtr("b")),
			"b": newJobType("b", strPtr("a")),
		}}, &fakeApprovalStore{})
		chain, err := handler.GetFullChain("s1", "a")
		require.NoError(t, err)
		require.Len(t, chain, 1)
		require.Equal(t, "b", chain[0].ID)
	})
	t.Run(`обход ограничен глубиной`, func(t *testing.T) {
		handler := newHandler(&fakeJobStore{}, fakeTypeStore{types: map[string]*dbmodels.JobType{
			"a": newJobType("a", strPtr("b")),
			"b": newJobType("b", strPtr("c")),
			"c": newJobType("c", strPtr("d")),
			"d": newJobType("d", strPtr("e")),
			"e": newJobType("e", nil),
		}}, &fakeApprovalStore{})
		chain, err := handler.GetFullChain("s1", "a")
		require.NoError(t, err)
		require.Len(t, chain, 3)
	})
	t.Run(`неизвестный вид работ`, func(t *testing.T) {
		handler := newHandler(&fakeJobStore{}, fakeTypeStore{}, &fakeApprovalStore{})
		_, err := handler.GetFullChain("s1", "missing")
		require.Error(t, err)
		kind, ok := models.GetErrKind(err)
		require.True(t, ok)
		require.Equal(t, models.ErrKindNotFound, kind)
	})
}

func TestValidateChain(t *testing.T) {
	types := map[string]*dbmodels.JobType{
		"a": newJobType("a", strPtr("b")),
		"b": newJobType("b", strPtr("c")),
		"c": newJobType("c", nil),
	}
	handler := newHandler(&fakeJobStore{}, fakeTypeStore{types: types}, &fakeApprovalStore{})

	t.Run(`без последователя проверок нет`, func(t *testing.T) {
		require.NoError(t, handler.ValidateChain("s1", "a", nil))
	})
	t.Run(`запрет ссылки на самого себя`, func(t *testing.T) {
		err := handler.ValidateChain("s1", "a", strPtr("a"))
		require.Error(t, err)
		kind, ok := models.GetErrKind(err)
		require.True(t, ok)
		require.Equal(t, models.ErrKindValidation, kind)
	})
	t.Run(`последователь должен существовать`, func(t *testing.T) {
		err := handler.ValidateChain("s1", "a", strPtr("missing"))
		require.Error(t, err)
		kind, ok := models.GetErrKind(err)
		require.True(t, ok)
		require.Equal(t, models.ErrKindValidation, kind)
	})
	t.Run(`новое ребро не должно замыкать цикл`, func(t *testing.T) {
		err := handler.ValidateChain("s1", "c", strPtr("a"))
		require.Error(t, err)
		kind, ok := models.GetErrKind(err)
		require.True(t, ok)
		require.Equal(t, models.ErrKindValidation, kind)
	})
	t.Run(`корректное ребро проходит`, func(t *testing.T) {
		require.NoError(t, handler.ValidateChain("s1", "x", strPtr("b")))
	})
	t.Run(`превышение предела глубины`, func(t *testing.T) {
		deep := map[string]*dbmodels.JobType{
			"a": newJobType("a", strPtr("b")),
			"b": newJobType("b", strPtr("c")),
			"c": newJobType("c", strPtr("d")),
			"d": newJobType("d", nil),
		}
		deepHandler := newHandler(&fakeJobStore{}, fakeTypeStore{types: deep}, &fakeApprovalStore{})
		err := deepHandler.ValidateChain("s1", "x", strPtr("a"))
		require.Error(t, err)
		kind, ok := models.GetErrKind(err)
		require.True(t, ok)
		require.Equal(t, models.ErrKindValidation, kind)
	})
}

func TestOnJobCompleted(t *testing.T) {
	t.Run(`разблокировка с автоназначением`, func(t *testing.T) {
		initFakeInstances(autoassignhandler.Result{AssigneeID: "worker", Source: models.AssignSourceProjectMap, Resolved: true})
		successor := newJob("j2", models.JobStatusPendingDependency)
		successor.PredecessorID = strPtr("j1")
		jobStore := &fakeJobStore{jobs: map[string]*dbmodels.Job{"j2": successor}}
		approvalStore := &fakeApprovalStore{}
		handler := newHandler(jobStore, fakeTypeStore{}, approvalStore)

		err := handler.OnJobCompleted(*newJob("j1", models.JobStatusCompleted))
		require.NoError(t, err)
		require.Equal(t, models.JobStatusInProgress, successor.Status)
		require.Equal(t, "worker", successor.AssigneeOrEmpty())
		require.Len(t, approvalStore.created, 1)
		require.Equal(t, models.AStatusApproved, approvalStore.created[0].Status)
		require.Equal(t, 1, approvalStore.created[0].Level)
	})
	t.Run(`без исполнителя работа остаётся согласованной`, func(t *testing.T) {
		push := &fakePush{}
		activityloghandler.Instance = fakeActivityLog{}
		pushhandler.Instance = push
		autoassignhandler.Instance = fakeAutoAssign{}
		successor := newJob("j2", models.JobStatusPendingDependency)
		successor.PredecessorID = strPtr("j1")
		jobStore := &fakeJobStore{jobs: map[string]*dbmodels.Job{"j2": successor}}
		handler := newHandler(jobStore, fakeTypeStore{}, &fakeApprovalStore{})

		err := handler.OnJobCompleted(*newJob("j1", models.JobStatusCompleted))
		require.NoError(t, err)
		require.Equal(t, models.JobStatusApproved, successor.Status)
		require.Empty(t, successor.AssigneeOrEmpty())
		require.Equal(t, 1, push.adminNotifies)
	})
	t.Run(`отменённый последователь не разблокируется`, func(t *testing.T) {
		initFakeInstances(autoassignhandler.Result{})
		successor := newJob("j2", models.JobStatusCancelled)
		successor.PredecessorID = strPtr("j1")
		jobStore := &fakeJobStore{jobs: map[string]*dbmodels.Job{"j2": successor}}
		handler := newHandler(jobStore, fakeTypeStore{}, &fakeApprovalStore{})

		err := handler.OnJobCompleted(*newJob("j1", models.JobStatusCompleted))
		require.NoError(t, err)
		require.Equal(t, models.JobStatusCancelled, successor.Status)
	})
}

func TestCancelChainedJobs(t *testing.T) {
	t.Run(`каскад по цепочке без закрытых работ`, func(t *testing.T) {
		initFakeInstances(autoassignhandler.Result{})
		next := newJob("j2", models.JobStatusPendingDependency)
		next.NextJobID = strPtr("j3")
		last := newJob("j3", models.JobStatusCompleted)
		jobStore := &fakeJobStore{jobs: map[string]*dbmodels.Job{"j2": next, "j3": last}}
		handler := newHandler(jobStore, fakeTypeStore{}, &fakeApprovalStore{})

		head := newJob("j1", models.JobStatusRejected)
		head.NextJobID = strPtr("j2")
		err := handler.CancelChainedJobs(*head, nil, "отклонена головная работа")
		require.NoError(t, err)
		require.Equal(t, models.JobStatusCancelled, next.Status)
		require.Equal(t, models.JobStatusCompleted, last.Status)
	})
}

func TestCheckParentJobClosure(t *testing.T) {
	setup := func(statuses ...models.JobStatus) (*fakeJobStore, *dbmodels.Job) {
		parent := newJob("parent", models.JobStatusInProgress)
		parent.IsParent = true
		jobs := map[string]*dbmodels.Job{"parent": parent}
		for n, status := range statuses {
			child := newJob(string(rune('a'+n)), status)
			child.ParentID = strPtr("parent")
			jobs[child.ID] = child
		}
		return &fakeJobStore{jobs: jobs}, parent
	}

	t.Run(`все дочерние выполнены`, func(t *testing.T) {
		initFakeInstances(autoassignhandler.Result{})
		jobStore, parent := setup(models.JobStatusCompleted, models.JobStatusCompleted)
		handler := newHandler(jobStore, fakeTypeStore{}, &fakeApprovalStore{})
		require.NoError(t, handler.CheckParentJobClosure("s1", "parent"))
		require.Equal(t, models.JobStatusCompleted, parent.Status)
	})
	t.Run(`часть дочерних выполнена`, func(t *testing.T) {
		initFakeInstances(autoassignhandler.Result{})
		jobStore, parent := setup(models.JobStatusCompleted, models.JobStatusCancelled)
		handler := newHandler(jobStore, fakeTypeStore{}, &fakeApprovalStore{})
		require.NoError(t, handler.CheckParentJobClosure("s1", "parent"))
		require.Equal(t, models.JobStatusPartiallyCompleted, parent.Status)
	})
	t.Run(`ни одна дочерняя не выполнена`, func(t *testing.T) {
		initFakeInstances(autoassignhandler.Result{})
		jobStore, parent := setup(models.JobStatusRejected, models.JobStatusCancelled)
		handler := newHandler(jobStore, fakeTypeStore{}, &fakeApprovalStore{})
		require.NoError(t, handler.CheckParentJobClosure("s1", "parent"))
		require.Equal(t, models.JobStatusRejected, parent.Status)
	})
	t.Run(`открытая дочерняя блокирует закрытие`, func(t *testing.T) {
		initFakeInstances(autoassignhandler.Result{})
		jobStore, parent := setup(models.JobStatusCompleted, models.JobStatusInProgress)
		handler := newHandler(jobStore, fakeTypeStore{}, &fakeApprovalStore{})
		require.NoError(t, handler.CheckParentJobClosure("s1", "parent"))
		require.Equal(t, models.JobStatusInProgress, parent.Status)
	})
}
