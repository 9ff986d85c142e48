package models

import "errors"

type ErrKind string

const (
	ErrKindValidation       ErrKind = "validation"
	ErrKindNotFound         ErrKind = "not_found"
	ErrKindAlreadyProcessed ErrKind = "already_processed"
)

// AppError ошибка бизнес-логики с типом для маппинга на http статус
type AppError struct {
	Kind    ErrKind
	Message string
}

func (e AppError) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return AppError{Kind: ErrKindValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return AppError{Kind: ErrKindNotFound, Message: msg}
}

func NewAlreadyProcessedError(msg string) error {
	return AppError{Kind: ErrKindAlreadyProcessed, Message: msg}
}

func GetErrKind(err error) (kind ErrKind, ok bool) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

func IsAlreadyProcessed(err error) bool {
	kind, ok := GetErrKind(err)
	return ok && kind == ErrKindAlreadyProcessed
}
