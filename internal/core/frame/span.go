package frame

import "time"

// Timeframe is the granularity a Span snaps its boundaries to.
type Timeframe int

const (
	TimeframeSecond Timeframe = iota
	TimeframeHour
	TimeframeDay
)

// Span is a time range normalized to a timeframe granularity: Start is
// floored and Stop is ceiled to the timeframe boundary. Spans are plain
// values; operations return new Spans, so a copy captured before a union
// keeps observing the pre-union bounds.
type Span struct {
	Start     time.Time
	Stop      time.Time
	Timeframe Timeframe
}

// NewSpan builds a Span from two timestamps, snapping them to the timeframe.
// Start must not be after stop for the result to be meaningful; no validation
// is performed.
func NewSpan(start, stop time.Time, timeframe Timeframe) Span {
	return Span{
		Start:     floorTime(start, timeframe),
		Stop:      ceilTime(stop, timeframe),
		Timeframe: timeframe,
	}
}

// Overlaps reports whether the frame intersects the span, boundaries
// included.
func (s Span) Overlaps(f Frame) bool {
	return !f.Start.After(s.Stop) && !f.Stop.Before(s.Start)
}

// Contains reports whether the frame lies fully inside the span.
func (s Span) Contains(f Frame) bool {
	return !f.Start.Before(s.Start) && !f.Stop.After(s.Stop)
}

// Union returns a new Span covering both operands: the earlier start
// re-floored and the later stop re-ceiled. The timeframe of the receiver is
// kept.
func (s Span) Union(other Span) Span {
	merged := s
	if other.Start.Before(s.Start) {
		merged.Start = floorTime(other.Start, s.Timeframe)
	}
	if other.Stop.After(s.Stop) {
		merged.Stop = ceilTime(other.Stop, s.Timeframe)
	}
	return merged
}

// floorTime snaps t down to the start of its timeframe unit, in t's own
// location.
func floorTime(t time.Time, timeframe Timeframe) time.Time {
	year, month, day := t.Date()
	switch timeframe {
	case TimeframeDay:
		return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	case TimeframeHour:
		return time.Date(year, month, day, t.Hour(), 0, 0, 0, t.Location())
	default:
		return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	}
}

// ceilTime snaps t up to the last representable instant of its timeframe
// unit.
func ceilTime(t time.Time, timeframe Timeframe) time.Time {
	floored := floorTime(t, timeframe)
	switch timeframe {
	case TimeframeDay:
		return floored.AddDate(0, 0, 1).Add(-time.Nanosecond)
	case TimeframeHour:
		return floored.Add(time.Hour - time.Nanosecond)
	default:
		return floored.Add(time.Second - time.Nanosecond)
	}
}
