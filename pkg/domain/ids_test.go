package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "verifyflow/pkg/domain-errors"
)

// TestParseUUID_Invariants validates "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCaseID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseCaseID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects braced and urn forms", func(t *testing.T) {
		u := uuid.New().String()
		for _, in := range []string{"{" + u + "}", "urn:uuid:" + u, strings.ReplaceAll(u, "-", "")} {
			_, err := ParseDocumentID(in)
			assert.Error(t, err, in)
		}
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseCaseID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, CaseID(valid), id)
	})
}

func TestIDsRoundTripJSON(t *testing.T) {
	type payload struct {
		Case CaseID     `json:"case_id"`
		Doc  DocumentID `json:"document_id"`
	}
	in := payload{Case: NewCaseID(), Doc: NewDocumentID()}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), in.Case.String())

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}
