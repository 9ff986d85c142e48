package autoassignhandler

import (
	"testing"

	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeUsersStore struct {
	byID map[string]*dbmodels.SpaceUser
}

func (f fakeUsersStore) Create(rec dbmodels.SpaceUser) (string, error)            { return "", nil }
func (f fakeUsersStore) Update(userID string, updMap map[string]interface{}) error { return nil }
func (f fakeUsersStore) Delete(userID string) error                                { return nil }
func (f fakeUsersStore) GetList(spaceID string, page, limit int) ([]dbmodels.SpaceUser, error) {
	return nil, nil
}
func (f fakeUsersStore) FindByEmail(email string) (*dbmodels.SpaceUser, error) { return nil, nil }
func (f fakeUsersStore) GetByID(userID string) (*dbmodels.SpaceUser, error) {
	return f.byID[userID], nil
}
func (f fakeUsersStore) ListAdmins(spaceID string) ([]dbmodels.SpaceUser, error) { return nil, nil }

type fakeProjectStore struct {
	assignment *dbmodels.ProjectAssignment
}

func (f fakeProjectStore) Create(rec dbmodels.Project) (string, error)                  { return "", nil }
func (f fakeProjectStore) Update(spaceID, id string, updMap map[string]interface{}) error { return nil }
func (f fakeProjectStore) Delete(spaceID, id string) error                              { return nil }
func (f fakeProjectStore) GetByID(spaceID, id string) (*dbmodels.Project, error)        { return nil, nil }
func (f fakeProjectStore) List(spaceID string) ([]dbmodels.Project, error)              { return nil, nil }
func (f fakeProjectStore) GetAssignment(spaceID, projectID, jobTypeID string) (*dbmodels.ProjectAssignment, error) {
	return f.assignment, nil
}
func (f fakeProjectStore) SaveAssignment(rec dbmodels.ProjectAssignment) (string, error) {
	return "", nil
}
func (f fakeProjectStore) DeleteAssignment(spaceID, projectID, jobTypeID string) error { return nil }
func (f fakeProjectStore) ListAssignments(spaceID, projectID string) ([]dbmodels.ProjectAssignment, error) {
	return nil, nil
}

type fakeDepartmentStore struct {
	byID map[string]*dbmodels.Department
}

func (f fakeDepartmentStore) Create(rec dbmodels.Department) (string, error) { return "", nil }
func (f fakeDepartmentStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}
func (f fakeDepartmentStore) Delete(spaceID, id string) error { return nil }
func (f fakeDepartmentStore) GetByID(spaceID, id string) (*dbmodels.Department, error) {
	return f.byID[id], nil
}
func (f fakeDepartmentStore) List(spaceID string) ([]dbmodels.Department, error) { return nil, nil }

func activeUser(id, spaceID string) *dbmodels.SpaceUser {
	return &dbmodels.SpaceUser{
		BaseModel: dbmodels.BaseModel{ID: id},
		SpaceID:   spaceID,
		IsActive:  true,
	}
}

func strPtr(value string) *string {
	return &value
}

func TestResolve(t *testing.T) {
	job := dbmodels.Job{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: "j1"},
			SpaceID:   "s1",
		},
		ProjectID:   "p1",
		JobTypeID:   "t1",
		RequesterID: "req",
	}

	t.Run(`исполнитель из настройки согласования`, func(t *testing.T) {
		handler := impl{
			usersStore: fakeUsersStore{byID: map[string]*dbmodels.SpaceUser{
				"lead": activeUser("lead", "s1"),
			}},
			projectStore:    fakeProjectStore{},
			departmentStore: fakeDepartmentStore{},
		}
		flow := &dbmodels.ApprovalFlow{
			AutoAssignType:   models.AutoAssignSpecificUser,
			AutoAssignUserID: strPtr("lead"),
		}
		result, err := handler.Resolve(job, flow)
		require.NoError(t, err)
		require.True(t, result.Resolved)
		require.Equal(t, "lead", result.AssigneeID)
		require.Equal(t, models.AssignSourceFlow, result.Source)
	})

	t.Run(`неактивный исполнитель из настройки пропускается`, func(t *testing.T) {
		inactive := activeUser("lead", "s1")
		inactive.IsActive = false
		handler := impl{
			usersStore: fakeUsersStore{byID: map[string]*dbmodels.SpaceUser{
				"lead":   inactive,
				"mapped": activeUser("mapped", "s1"),
			}},
			projectStore:    fakeProjectStore{assignment: &dbmodels.ProjectAssignment{AssigneeID: "mapped"}},
			departmentStore: fakeDepartmentStore{},
		}
		flow := &dbmodels.ApprovalFlow{
			AutoAssignType:   models.AutoAssignSpecificUser,
			AutoAssignUserID: strPtr("lead"),
		}
		result, err := handler.Resolve(job, flow)
		require.NoError(t, err)
		require.True(t, result.Resolved)
		require.Equal(t, "mapped", result.AssigneeID)
		require.Equal(t, models.AssignSourceProjectMap, result.Source)
	})

	t.Run(`карта исполнителей проекта`, func(t *testing.T) {
		handler := impl{
			usersStore: fakeUsersStore{byID: map[string]*dbmodels.SpaceUser{
				"mapped": activeUser("mapped", "s1"),
			}},
			projectStore:    fakeProjectStore{assignment: &dbmodels.ProjectAssignment{AssigneeID: "mapped"}},
			departmentStore: fakeDepartmentStore{},
		}
		result, err := handler.Resolve(job, nil)
		require.NoError(t, err)
		require.True(t, result.Resolved)
		require.Equal(t, "mapped", result.AssigneeID)
		require.Equal(t, models.AssignSourceProjectMap, result.Source)
	})

	t.Run(`руководитель отдела инициатора`, func(t *testing.T) {
		requester := activeUser("req", "s1")
		requester.DepartmentID = strPtr("d1")
		handler := impl{
			usersStore: fakeUsersStore{byID: map[string]*dbmodels.SpaceUser{
				"req":     requester,
				"manager": activeUser("manager", "s1"),
			}},
			projectStore: fakeProjectStore{},
			departmentStore: fakeDepartmentStore{byID: map[string]*dbmodels.Department{
				"d1": {ManagerID: strPtr("manager")},
			}},
		}
		result, err := handler.Resolve(job, nil)
		require.NoError(t, err)
		require.True(t, result.Resolved)
		require.Equal(t, "manager", result.AssigneeID)
		require.Equal(t, models.AssignSourceDeptManager, result.Source)
	})

	t.Run(`не нашли ни по одному правилу`, func(t *testing.T) {
		handler := impl{
			usersStore:      fakeUsersStore{},
			projectStore:    fakeProjectStore{},
			departmentStore: fakeDepartmentStore{},
		}
		result, err := handler.Resolve(job, nil)
		require.NoError(t, err)
		require.False(t, result.Resolved)
		require.Empty(t, result.AssigneeID)
	})
}
