package autoassignhandler

import (
	"creative-tools-backend/db"
	departmentstore "creative-tools-backend/lib/dicts/department/store"
	projectstore "creative-tools-backend/lib/dicts/project/store"
	spaceusersstore "creative-tools-backend/lib/space/users/store"
	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Resolve подбор исполнителя после согласования. Не нашли ни по одному из
	// правил — работа остаётся без исполнителя, Resolved=false, назначение
	// остаётся за администратором пространства.
	Resolve(job dbmodels.Job, flow *dbmodels.ApprovalFlow) (result Result, err error)
}

type Result struct {
	AssigneeID string
	Source     models.AssignSource
	Resolved   bool
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		usersStore:      spaceusersstore.NewInstance(db.DB),
		projectStore:    projectstore.NewInstance(db.DB),
		departmentStore: departmentstore.NewInstance(db.DB),
	}
}

type impl struct {
	usersStore      spaceusersstore.Provider
	projectStore    projectstore.Provider
	departmentStore departmentstore.Provider
}

func (i impl) Resolve(job dbmodels.Job, flow *dbmodels.ApprovalFlow) (Result, error) {
	logger := log.
		WithField("space_id", job.SpaceID).
		WithField("job_id", job.ID)

	// правило из настройки согласования
	if flow != nil && flow.AutoAssignUserID != nil {
		switch flow.AutoAssignType {
		case models.AutoAssignSpecificUser, models.AutoAssignTeamLead:
			ok, err := i.isActiveUser(job.SpaceID, *flow.AutoAssignUserID)
			if err != nil {
				return Result{}, err
			}
			if ok {
				return Result{AssigneeID: *flow.AutoAssignUserID, Source: models.AssignSourceFlow, Resolved: true}, nil
			}
			logger.WithField("user_id", *flow.AutoAssignUserID).
				Warn("исполнитель из настройки согласования неактивен, переходим к карте проекта")
		}
	}

	// карта исполнителей проекта по виду работ
	assignment, err := i.projectStore.GetAssignment(job.SpaceID, job.ProjectID, job.JobTypeID)
	if err != nil {
		return Result{}, err
	}
	if assignment != nil {
		ok, err := i.isActiveUser(job.SpaceID, assignment.AssigneeID)
		if err != nil {
			return Result{}, err
		}
		if ok {
			return Result{AssigneeID: assignment.AssigneeID, Source: models.AssignSourceProjectMap, Resolved: true}, nil
		}
	}

	// руководитель отдела инициатора
	requester, err := i.usersStore.GetByID(job.RequesterID)
	if err != nil {
		return Result{}, err
	}
	if requester != nil && requester.DepartmentID != nil {
		department, err := i.departmentStore.GetByID(job.SpaceID, *requester.DepartmentID)
		if err != nil {
			return Result{}, err
		}
		if department != nil && department.ManagerID != nil {
			ok, err := i.isActiveUser(job.SpaceID, *department.ManagerID)
			if err != nil {
				return Result{}, err
			}
			if ok {
				return Result{AssigneeID: *department.ManagerID, Source: models.AssignSourceDeptManager, Resolved: true}, nil
			}
		}
	}

	logger.Info("исполнитель не подобран, требуется ручное назначение")
	return Result{}, nil
}

func (i impl) isActiveUser(spaceID, userID string) (bool, error) {
	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.SpaceID == spaceID && user.IsActive, nil
}
