package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	t.Run("HasCode sees through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeNotFound, "case not found"))
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("Wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Wrap(cause, CodeInternal, "failed to save case")
		assert.True(t, Is(err, cause))
		assert.Equal(t, "failed to save case", err.Error())
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("Wrap without message reports the cause", func(t *testing.T) {
		err := Wrap(errors.New("boom"), CodeInternal, "")
		assert.Equal(t, "boom", err.Error())
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.Equal(t, Code(""), CodeOf(errors.New("x")))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}
