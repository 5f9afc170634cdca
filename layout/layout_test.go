package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func TestAssignEmpty(t *testing.T) {
	require.Nil(t, Assign(nil))
	require.Nil(t, Assign([]Event{}))
}

func TestAssignSingleEvent(t *testing.T) {
	out := Assign([]Event{{ID: 1, Start: at(9, 0), End: at(10, 0)}})
	require.Len(t, out, 1)
	require.Equal(t, 0, out[0].Lane)
	require.Equal(t, 1, out[0].Lanes)
}

func TestAssignTwoOverlappingThenSeparate(t *testing.T) {
	// [09:00,10:00) and [09:30,10:30) share a group of width 2;
	// [11:00,12:00) starts after both end and opens a fresh group.
	out := Assign([]Event{
		{ID: 1, Start: at(9, 0), End: at(10, 0)},
		{ID: 2, Start: at(9, 30), End: at(10, 30)},
		{ID: 3, Start: at(11, 0), End: at(12, 0)},
	})
	require.Len(t, out, 3)

	require.Equal(t, uint(1), out[0].ID)
	require.Equal(t, 0, out[0].Lane)
	require.Equal(t, 2, out[0].Lanes)

	require.Equal(t, uint(2), out[1].ID)
	require.Equal(t, 1, out[1].Lane)
	require.Equal(t, 2, out[1].Lanes)

	require.Equal(t, uint(3), out[2].ID)
	require.Equal(t, 0, out[2].Lane)
	require.Equal(t, 1, out[2].Lanes)
}

func TestAssignReusesSmallestFreedLane(t *testing.T) {
	// The third event starts when the first ends, so lane 0 is free again
	// and must be preferred over opening lane 2.
	out := Assign([]Event{
		{ID: 1, Start: at(9, 0), End: at(10, 0)},
		{ID: 2, Start: at(9, 30), End: at(11, 0)},
		{ID: 3, Start: at(10, 0), End: at(10, 30)},
	})
	require.Len(t, out, 3)
	require.Equal(t, 0, out[0].Lane)
	require.Equal(t, 1, out[1].Lane)
	require.Equal(t, 0, out[2].Lane)
	for _, ev := range out {
		require.Equal(t, 2, ev.Lanes)
	}
}

func TestAssignBackToBackAreSeparateGroups(t *testing.T) {
	out := Assign([]Event{
		{ID: 1, Start: at(9, 0), End: at(10, 0)},
		{ID: 2, Start: at(10, 0), End: at(11, 0)},
	})
	require.Len(t, out, 2)
	for _, ev := range out {
		require.Equal(t, 0, ev.Lane)
		require.Equal(t, 1, ev.Lanes)
	}
}

func TestAssignGroupWidthIsMaxConcurrency(t *testing.T) {
	// Three events overlap pairwise in a chain, but at most two run at
	// once, so the group width is 2, not 3.
	out := Assign([]Event{
		{ID: 1, Start: at(9, 0), End: at(10, 0)},
		{ID: 2, Start: at(9, 30), End: at(10, 30)},
		{ID: 3, Start: at(10, 0), End: at(11, 0)},
	})
	require.Len(t, out, 3)
	for _, ev := range out {
		require.Equal(t, 2, ev.Lanes)
	}
	require.Equal(t, 0, out[0].Lane)
	require.Equal(t, 1, out[1].Lane)
	require.Equal(t, 0, out[2].Lane)
}

func TestAssignInputOrderIrrelevant(t *testing.T) {
	events := []Event{
		{ID: 3, Start: at(11, 0), End: at(12, 0)},
		{ID: 2, Start: at(9, 30), End: at(10, 30)},
		{ID: 1, Start: at(9, 0), End: at(10, 0)},
	}
	out := Assign(events)
	require.Equal(t, uint(1), out[0].ID)
	require.Equal(t, uint(2), out[1].ID)
	require.Equal(t, uint(3), out[2].ID)

	again := Assign(events)
	require.Equal(t, out, again)

	// Input must be untouched.
	require.Equal(t, uint(3), events[0].ID)
	require.Zero(t, events[0].Lanes)
}

func TestAssignStartTiesBrokenByEnd(t *testing.T) {
	out := Assign([]Event{
		{ID: 2, Start: at(9, 0), End: at(11, 0)},
		{ID: 1, Start: at(9, 0), End: at(10, 0)},
	})
	require.Equal(t, uint(1), out[0].ID)
	require.Equal(t, 0, out[0].Lane)
	require.Equal(t, uint(2), out[1].ID)
	require.Equal(t, 1, out[1].Lane)
	for _, ev := range out {
		require.Equal(t, 2, ev.Lanes)
	}
}

func TestAssignZeroDurationEvent(t *testing.T) {
	// A zero-length event never overlaps anything under the half-open
	// rule; it still occupies its own lane in its own group.
	out := Assign([]Event{
		{ID: 1, Start: at(9, 0), End: at(9, 0)},
		{ID: 2, Start: at(9, 0), End: at(10, 0)},
	})
	require.Len(t, out, 2)
	require.Equal(t, uint(1), out[0].ID)
	require.Equal(t, 0, out[0].Lane)
	require.Equal(t, uint(2), out[1].ID)
	require.Equal(t, 0, out[1].Lane)
}
