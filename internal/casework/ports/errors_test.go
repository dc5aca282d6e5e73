package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "verifyflow/pkg/domain-errors"
)

func TestServiceErrorKeepsReasonVerbatim(t *testing.T) {
	err := &ServiceError{Reason: "upstream said: no", Status: 502}
	assert.Equal(t, "upstream said: no", err.Error())
	assert.Nil(t, err.Unwrap())
	assert.Nil(t, dErrors.FieldsOf(err))
}

func TestServiceErrorExposesFields(t *testing.T) {
	fields := dErrors.FieldErrors{{FieldPath: "email", Message: "Email is required"}}
	var err error = &ServiceError{Reason: "validation failed", Status: 422, Fields: fields}

	assert.Equal(t, fields, dErrors.FieldsOf(err))
	var se *ServiceError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, 422, se.Status)
}

func TestServiceErrorCarriesCode(t *testing.T) {
	err := &ServiceError{Reason: "case not found", Status: 404, Code: dErrors.CodeNotFound}
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
