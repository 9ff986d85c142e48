package models

import (
	"fmt"
	"strconv"
	"strings"
)

type JobStatus string

const (
	JobStatusDraft              JobStatus = "draft"
	JobStatusPendingApproval    JobStatus = "pending_approval"
	JobStatusPendingDependency  JobStatus = "pending_dependency"
	JobStatusPendingRejection   JobStatus = "pending_rejection"
	JobStatusApproved           JobStatus = "approved"
	JobStatusInProgress         JobStatus = "in_progress"
	JobStatusRework             JobStatus = "rework"
	JobStatusCompleted          JobStatus = "completed"
	JobStatusPartiallyCompleted JobStatus = "partially_completed"
	JobStatusRejected           JobStatus = "rejected"
	JobStatusRejectedByAssignee JobStatus = "rejected_by_assignee"
	JobStatusCancelled          JobStatus = "cancelled"
)

const pendingLevelPrefix = "pending_level_"

// PendingStatusByLevel первый этап всегда pending_approval, далее pending_level_N
func PendingStatusByLevel(level int) JobStatus {
	if level <= 1 {
		return JobStatusPendingApproval
	}
	return JobStatus(fmt.Sprintf("%v%v", pendingLevelPrefix, level))
}

func (s JobStatus) ApprovalLevel() (level int, ok bool) {
	if s == JobStatusPendingApproval {
		return 1, true
	}
	if strings.HasPrefix(string(s), pendingLevelPrefix) {
		level, err := strconv.Atoi(strings.TrimPrefix(string(s), pendingLevelPrefix))
		if err != nil || level < 2 {
			return 0, false
		}
		return level, true
	}
	return 0, false
}

func (s JobStatus) IsPendingApproval() bool {
	_, ok := s.ApprovalLevel()
	return ok
}

func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted,
		JobStatusPartiallyCompleted,
		JobStatusRejected,
		JobStatusRejectedByAssignee,
		JobStatusCancelled:
		return true
	}
	return false
}

// AllowRejectionRequest исполнитель может просить отказ только по работе в производстве
func (s JobStatus) AllowRejectionRequest() bool {
	return s == JobStatusInProgress || s == JobStatusRework
}

func (s JobStatus) ToHuman() string {
	if level, ok := s.ApprovalLevel(); ok {
		if level == 1 {
			return "На согласовании"
		}
		return fmt.Sprintf("На согласовании (этап %v)", level)
	}
	switch s {
	case JobStatusDraft:
		return "Черновик"
	case JobStatusPendingDependency:
		return "Ожидает предшествующую работу"
	case JobStatusPendingRejection:
		return "Запрошен отказ"
	case JobStatusApproved:
		return "Согласована"
	case JobStatusInProgress:
		return "В работе"
	case JobStatusRework:
		return "На доработке"
	case JobStatusCompleted:
		return "Завершена"
	case JobStatusPartiallyCompleted:
		return "Завершена частично"
	case JobStatusRejected:
		return "Отклонена"
	case JobStatusRejectedByAssignee:
		return "Отказ исполнителя"
	case JobStatusCancelled:
		return "Отменена"
	}
	return string(s)
}

type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityNormal JobPriority = "normal"
	JobPriorityUrgent JobPriority = "urgent"
)

func (p JobPriority) Validate() error {
	switch p {
	case JobPriorityLow, JobPriorityNormal, JobPriorityUrgent:
		return nil
	}
	return NewValidationError(fmt.Sprintf("неизвестный приоритет: %v", p))
}

type ApprovalStatus string

const (
	AStatusPending  ApprovalStatus = "pending"
	AStatusApproved ApprovalStatus = "approved"
	AStatusRejected ApprovalStatus = "rejected"
)

type RejectionStatus string

const (
	RejectionStatusPending      RejectionStatus = "pending"
	RejectionStatusApproved     RejectionStatus = "approved"
	RejectionStatusDenied       RejectionStatus = "denied"
	RejectionStatusAutoApproved RejectionStatus = "auto_approved"
)

type AutoAssignType string

const (
	AutoAssignManual       AutoAssignType = "manual"
	AutoAssignSpecificUser AutoAssignType = "specific_user"
	AutoAssignTeamLead     AutoAssignType = "team_lead"
	AutoAssignDeptManager  AutoAssignType = "dept_manager"
)

type QuorumRule string

const (
	QuorumAny QuorumRule = "ANY"
	QuorumAll QuorumRule = "ALL"
)

// AssignSource источник решения при автоназначении, пишется в журнал активности
type AssignSource string

const (
	AssignSourceFlow        AssignSource = "flow"
	AssignSourceProjectMap  AssignSource = "project_mapping"
	AssignSourceDeptManager AssignSource = "department_manager"
)
