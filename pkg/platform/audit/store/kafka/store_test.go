package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "verifyflow/pkg/domain"
	audit "verifyflow/pkg/platform/audit"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var out kgo.ProduceResults
	for _, r := range rs {
		f.records = append(f.records, r)
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func TestAppend(t *testing.T) {
	caseID := id.NewCaseID()
	event := audit.Event{
		UserID:    id.NewUserID(),
		CaseID:    caseID.String(),
		Action:    string(audit.EventCaseSubmitted),
		Category:  audit.CategoryCompliance,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("produces keyed record", func(t *testing.T) {
		p := &fakeProducer{}
		require.NoError(t, New(p, "audit").Append(context.Background(), event))
		require.Len(t, p.records, 1)

		rec := p.records[0]
		assert.Equal(t, "audit", rec.Topic)
		assert.Equal(t, caseID.String(), string(rec.Key))

		var decoded audit.Event
		require.NoError(t, json.Unmarshal(rec.Value, &decoded))
		assert.Equal(t, event.Action, decoded.Action)
		assert.NotEmpty(t, decoded.ID)
		assert.Equal(t, event.UserID, decoded.UserID)
	})

	t.Run("falls back to user key", func(t *testing.T) {
		p := &fakeProducer{}
		e := event
		e.CaseID = ""
		require.NoError(t, New(p, "").Append(context.Background(), e))
		assert.Equal(t, e.UserID.String(), string(p.records[0].Key))
	})

	t.Run("surfaces broker failure", func(t *testing.T) {
		p := &fakeProducer{err: errors.New("leader not available")}
		err := New(p, "audit").Append(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "leader not available")
	})
}
