package ports

import (
	dErrors "verifyflow/pkg/domain-errors"
)

// ServiceError is a failure reported by a remote collaborator. The reason is
// surfaced to callers exactly as the collaborator gave it.
type ServiceError struct {
	Reason string
	Status int
	Code   dErrors.Code
	Fields dErrors.FieldErrors
}

func (e *ServiceError) Error() string {
	return e.Reason
}

// Unwrap exposes field errors so dErrors.FieldsOf works on service failures.
func (e *ServiceError) Unwrap() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e.Fields
}

func (e *ServiceError) ErrorCode() dErrors.Code {
	return e.Code
}
