package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "missing")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))

	// Kind survives wrapping with %w.
	wrapped := fmt.Errorf("outer: %w", New(KindExpired, "hold gone"))
	assert.Equal(t, KindExpired, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindExpired))
}

func TestSeatUnavailable(t *testing.T) {
	t.Parallel()

	err := SeatUnavailable([]string{"A1", "B2"})
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, []string{"A1", "B2"}, ConflictSeats(err))
	assert.Contains(t, err.Error(), "A1")

	assert.Nil(t, ConflictSeats(errors.New("plain")))
}

func TestWrapUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	err := Wrap(KindUpstream, cause, "gateway %s", "stub")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gateway stub")
	assert.Contains(t, err.Error(), "root cause")
}
