package engine

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval validates the endpoints of a usage interval. Both must be
// present and Start must be strictly before End.
func NewInterval(start, end *time.Time) (Interval, error) {
	if start == nil || end == nil {
		return Interval{}, ErrMissingInterval
	}
	if !start.Before(*end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: *start, End: *end}, nil
}

// Overlaps is the canonical half-open overlap test used everywhere in the
// engine: aStart < bEnd && bStart < aEnd. Touching endpoints do not count
// as overlapping, so back-to-back bookings are legal.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func (iv Interval) Overlaps(o Interval) bool {
	return Overlaps(iv.Start, iv.End, o.Start, o.End)
}
