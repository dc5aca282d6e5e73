package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "empty", raw: "", expected: nil},
		{name: "only separators", raw: " , ,", expected: nil},
		{name: "single", raw: "redpanda:9092", expected: []string{"redpanda:9092"}},
		{name: "trims and dedupes", raw: " a:9092, b:9092,,a:9092", expected: []string{"a:9092", "b:9092"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.raw, ","))
		})
	}
}

func TestDedupeAndTrimPreservesOrder(t *testing.T) {
	assert.Equal(t, []string{"passport", "national_id"},
		DedupeAndTrim([]string{" passport", "national_id", "passport ", ""}))
}
