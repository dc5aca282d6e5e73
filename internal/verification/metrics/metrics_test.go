package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementCreated("business")
	m.IncrementCreated("business")
	m.IncrementSubmitted()
	m.IncrementDecided("approved")
	m.IncrementUploaded("passport")
	m.IncrementSubmitRejected()
	m.ObserveOperation("submit", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CasesCreated.WithLabelValues("business")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CasesSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CasesDecided.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsUploaded.WithLabelValues("passport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubmitRejected))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}
