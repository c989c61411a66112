// Package frame models recorded work intervals and the ordered collection
// that owns them: the Frame value type, the Span time range used for report
// windows, and the Frames aggregate with lookup, filtering and clipping.
package frame

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// Frame is one recorded interval: a project worked on between Start and Stop,
// with optional tags. Frames are value objects; mutation always goes through
// the owning collection, which substitutes whole new values.
type Frame struct {
	Start     time.Time
	Stop      time.Time
	Project   string
	ID        string
	Tags      []string
	UpdatedAt time.Time
}

// New builds a Frame from already-parsed timestamps. Start and stop are
// converted to the local timezone for the in-memory representation, tags are
// deduplicated keeping first-seen order, and a zero updatedAt defaults to the
// current time.
func New(start, stop time.Time, project, id string, tags []string, updatedAt time.Time) Frame {
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	return Frame{
		Start:     start.In(time.Local),
		Stop:      stop.In(time.Local),
		Project:   project,
		ID:        id,
		Tags:      DedupeTags(tags),
		UpdatedAt: updatedAt,
	}
}

// Parse builds a Frame from loosely typed timestamp values as found in
// persisted rows: epoch seconds (integer or float), RFC 3339 strings, or
// time.Time. It fails with ErrDateConversion when a value is unparseable.
func Parse(start, stop any, project, id string, tags []string, updatedAt any) (Frame, error) {
	startT, err := ParseTime(start)
	if err != nil {
		return Frame{}, err
	}
	stopT, err := ParseTime(stop)
	if err != nil {
		return Frame{}, err
	}
	var updatedT time.Time
	if updatedAt != nil {
		if updatedT, err = ParseTime(updatedAt); err != nil {
			return Frame{}, err
		}
	}
	return New(startT, stopT, project, id, tags, updatedT), nil
}

// ParseTime converts an epoch-second number, an RFC 3339 string, or a
// time.Time into a local time.Time.
func ParseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.In(time.Local), nil
	case int:
		return time.Unix(int64(t), 0).In(time.Local), nil
	case int64:
		return time.Unix(t, 0).In(time.Local), nil
	case float64:
		return time.Unix(int64(t), 0).In(time.Local), nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrDateConversion, t)
		}
		return parsed.In(time.Local), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported value %v", ErrDateConversion, v)
	}
}

// NewID returns a fresh collision-resistant frame id: 32 hexadecimal
// characters, matching the historical on-disk format.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Day returns the calendar day the frame starts on, floored to local
// midnight. Log views group frames by this value.
func (f Frame) Day() time.Time {
	return floorTime(f.Start, TimeframeDay)
}

// Duration is the recorded time, stop minus start.
func (f Frame) Duration() time.Duration {
	return f.Stop.Sub(f.Start)
}

// WithBounds returns a copy of the frame with start and stop replaced and
// every other field untouched. Used to clip a frame to a report window
// without mutating the original.
func (f Frame) WithBounds(start, stop time.Time) Frame {
	f.Start = start
	f.Stop = stop
	return f
}

// Equal reports whether two frames carry the same data. Timestamps are
// compared at second resolution, matching the persisted format.
func (f Frame) Equal(other Frame) bool {
	if f.Start.Unix() != other.Start.Unix() ||
		f.Stop.Unix() != other.Stop.Unix() ||
		f.UpdatedAt.Unix() != other.UpdatedAt.Unix() ||
		f.Project != other.Project ||
		f.ID != other.ID ||
		len(f.Tags) != len(other.Tags) {
		return false
	}
	for i, tag := range f.Tags {
		if other.Tags[i] != tag {
			return false
		}
	}
	return true
}

// Before orders frames by start time ascending.
func (f Frame) Before(other Frame) bool {
	return f.Start.Before(other.Start)
}

// MarshalJSON serializes the frame in the durable row shape:
// [start_epoch, stop_epoch, project, id, [tags...], updated_at_epoch].
// Field order is part of the contract external tooling depends on.
func (f Frame) MarshalJSON() ([]byte, error) {
	row := [6]any{
		f.Start.UTC().Unix(),
		f.Stop.UTC().Unix(),
		f.Project,
		f.ID,
		f.Tags,
		f.UpdatedAt.UTC().Unix(),
	}
	if row[4] == nil {
		row[4] = []string{}
	}
	return sonic.Marshal(row)
}

// UnmarshalJSON reads the persisted row shape. Legacy rows are tolerated:
// the id may be null or absent (one is generated), tags may be absent
// (empty), and updated_at may be absent (defaults to load time).
func (f *Frame) UnmarshalJSON(data []byte) error {
	var row []any
	if err := sonic.Unmarshal(data, &row); err != nil {
		return fmt.Errorf("invalid frame row: %w", err)
	}
	if len(row) < 3 {
		return fmt.Errorf("invalid frame row: expected at least 3 fields, got %d", len(row))
	}

	project, ok := row[2].(string)
	if !ok {
		return fmt.Errorf("invalid frame row: project must be a string")
	}

	id := ""
	if len(row) > 3 && row[3] != nil {
		if id, ok = row[3].(string); !ok {
			return fmt.Errorf("invalid frame row: id must be a string")
		}
	}
	if id == "" {
		id = NewID()
	}

	var tags []string
	if len(row) > 4 && row[4] != nil {
		rawTags, ok := row[4].([]any)
		if !ok {
			return fmt.Errorf("invalid frame row: tags must be a list")
		}
		for _, raw := range rawTags {
			tag, ok := raw.(string)
			if !ok {
				return fmt.Errorf("invalid frame row: tags must be strings")
			}
			tags = append(tags, tag)
		}
	}

	var updatedAt any
	if len(row) > 5 {
		updatedAt = row[5]
	}

	parsed, err := Parse(row[0], row[1], project, id, tags, updatedAt)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// DedupeTags returns tags with duplicates removed, keeping first-seen order.
// The result is never nil.
func DedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
