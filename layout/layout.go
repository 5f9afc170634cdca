// Package layout assigns calendar lanes to overlapping events so that
// simultaneous blocks render side-by-side without occluding each other.
// It is a pure computation over one day's worth of events; the caller
// partitions events by day first.
package layout

import (
	"container/heap"
	"sort"
	"time"
)

// Event is one block on the calendar. Start/End form a half-open interval
// [Start, End). Lane and Lanes are filled in by Assign: Lane is the
// horizontal slot, Lanes the width divisor shared by the event's whole
// overlap group.
type Event struct {
	ID    uint      `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Lane  int       `json:"lane"`
	Lanes int       `json:"lanes"`
}

// Assign lays out events with a greedy sweep. Events are sorted by start,
// ties broken by end; each event takes the smallest free lane, or a fresh
// one when none is free. A group is a maximal run of transitively
// overlapping events; every event in a group gets Lanes = the maximum
// number of simultaneously active events seen in that group, so re-renders
// are stable and left-packed.
//
// The input slice is not modified; the returned slice is a sorted copy.
func Assign(events []Event) []Event {
	if len(events) == 0 {
		return nil
	}

	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].End.Before(out[j].End)
	})

	var (
		active     []*Event // events not yet ended, in assignment order
		free       laneHeap // lane numbers released by ended events
		nextLane   int
		groupStart int // index into out where the open group begins
		groupMax   int // max simultaneous active count in the open group
	)

	for i := range out {
		ev := &out[i]

		// Release events that ended at or before this start: end <= start
		// is exactly "does not overlap" for half-open intervals once the
		// slice is sorted by start.
		kept := active[:0]
		for _, a := range active {
			if !a.End.After(ev.Start) {
				heap.Push(&free, a.Lane)
			} else {
				kept = append(kept, a)
			}
		}
		active = kept

		if len(active) == 0 && i > 0 {
			closeGroup(out[groupStart:i], groupMax)
			groupStart = i
			groupMax = 0
			free = free[:0]
			nextLane = 0
		}

		if free.Len() > 0 {
			ev.Lane = heap.Pop(&free).(int)
		} else {
			ev.Lane = nextLane
			nextLane++
		}
		active = append(active, ev)
		if len(active) > groupMax {
			groupMax = len(active)
		}
	}
	closeGroup(out[groupStart:], groupMax)

	return out
}

func closeGroup(group []Event, maxActive int) {
	if maxActive < 1 {
		maxActive = 1
	}
	for i := range group {
		group[i].Lanes = maxActive
	}
}

// laneHeap is a min-heap of freed lane numbers, so the smallest free lane
// is always preferred.
type laneHeap []int

func (h laneHeap) Len() int            { return len(h) }
func (h laneHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h laneHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *laneHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *laneHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
