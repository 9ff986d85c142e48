package models

// коды действий журнала активности, журнал только дополняется
const (
	ActivityJobCreated            = "job_created"
	ActivityJobApproved           = "job_approved"
	ActivityJobApprovedCascade    = "job_approved_cascade"
	ActivityJobRejected           = "job_rejected"
	ActivityJobAssigned           = "job_assigned"
	ActivityJobAssignUnresolved   = "job_assign_unresolved"
	ActivityJobCompleted          = "job_completed"
	ActivityJobCancelled          = "job_cancelled"
	ActivityJobClosed             = "job_closed"
	ActivityDependencyReleased    = "dependency_released"
	ActivityDueDateShifted        = "due_date_shifted"
	ActivityDueDateExtended       = "due_date_extended"
	ActivityRejectionRequested    = "rejection_requested"
	ActivityRejectionApproved     = "rejection_approved"
	ActivityRejectionDenied       = "rejection_denied"
	ActivityRejectionAutoApproved = "rejection_auto_approved"
)
