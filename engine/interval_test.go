package engine_test

import (
	"testing"
	"time"

	"gearbook/engine"

	"github.com/stretchr/testify/require"
)

func ts(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func TestNewIntervalValid(t *testing.T) {
	start, end := ts(9, 0), ts(17, 0)
	iv, err := engine.NewInterval(&start, &end)
	require.NoError(t, err)
	require.Equal(t, start, iv.Start)
	require.Equal(t, end, iv.End)
}

func TestNewIntervalMissingEndpoints(t *testing.T) {
	end := ts(17, 0)
	_, err := engine.NewInterval(nil, &end)
	require.ErrorIs(t, err, engine.ErrMissingInterval)

	start := ts(9, 0)
	_, err = engine.NewInterval(&start, nil)
	require.ErrorIs(t, err, engine.ErrMissingInterval)

	_, err = engine.NewInterval(nil, nil)
	require.ErrorIs(t, err, engine.ErrMissingInterval)
}

func TestNewIntervalBadOrder(t *testing.T) {
	start, end := ts(17, 0), ts(9, 0)
	_, err := engine.NewInterval(&start, &end)
	require.ErrorIs(t, err, engine.ErrInvalidInterval)

	same := ts(9, 0)
	_, err = engine.NewInterval(&same, &same)
	require.ErrorIs(t, err, engine.ErrInvalidInterval)
}

func TestOverlapsHalfOpen(t *testing.T) {
	// [9,10) and [10,11) touch but do not overlap: back-to-back bookings
	// are legal.
	require.False(t, engine.Overlaps(ts(9, 0), ts(10, 0), ts(10, 0), ts(11, 0)))
	require.False(t, engine.Overlaps(ts(10, 0), ts(11, 0), ts(9, 0), ts(10, 0)))

	// [9,10) and [9:30,10:30) overlap.
	require.True(t, engine.Overlaps(ts(9, 0), ts(10, 0), ts(9, 30), ts(10, 30)))
	require.True(t, engine.Overlaps(ts(9, 30), ts(10, 30), ts(9, 0), ts(10, 0)))

	// Containment and identity.
	require.True(t, engine.Overlaps(ts(9, 0), ts(17, 0), ts(10, 0), ts(11, 0)))
	require.True(t, engine.Overlaps(ts(9, 0), ts(10, 0), ts(9, 0), ts(10, 0)))

	// Fully apart.
	require.False(t, engine.Overlaps(ts(9, 0), ts(10, 0), ts(12, 0), ts(13, 0)))
}
