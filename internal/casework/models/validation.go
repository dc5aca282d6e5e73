package models

import dErrors "verifyflow/pkg/domain-errors"

// ValidationError is a field-scoped failure from one validation pass.
// It is recomputed on every pass and never persisted.
type ValidationError = dErrors.FieldError

// ValidationErrors is the complete result of a validation pass; a case is
// valid for submission iff it is empty.
type ValidationErrors = dErrors.FieldErrors
