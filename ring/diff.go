package ring

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Range is an inclusive range of physical indices in the window.
type Range struct {
	Start, End int
}

func (r Range) Len() int {
	return r.End - r.Start + 1
}

// LossRange is an inclusive range of logical offsets (TotalWritten coordinates) that were
// overwritten before they could be observed.
type LossRange struct {
	Start, End int64
}

// NoLoss is the empty loss range.
var NoLoss = LossRange{Start: 0, End: -1}

func (l LossRange) Empty() bool {
	return l.End < l.Start
}

func (l LossRange) Len() int64 {
	if l.Empty() {
		return 0
	}
	return l.End - l.Start + 1
}

// Overlaps reports whether both ranges share at least one offset.
func (l LossRange) Overlaps(other LossRange) bool {
	if l.Empty() || other.Empty() {
		return false
	}
	return l.Start <= other.End && other.Start <= l.End
}

func (l LossRange) String() string {
	if l.Empty() {
		return "[]"
	}
	return fmt.Sprintf("[%d, %d]", l.Start, l.End)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (l LossRange) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt64("start", l.Start)
	enc.AddInt64("end", l.End)
	return nil
}

// ChangeDescriptor describes the bytes that appeared in a window between two observations.
type ChangeDescriptor struct {
	// Count is the number of new observable bytes.
	Count int
	// Ranges holds at most two physical ranges, in logical order.
	Ranges []Range
	// Offset is the logical offset of the first new byte.
	Offset int64
	// Loss is non-empty when unread bytes were overwritten.
	Loss LossRange
}

// Empty is true when nothing changed.
func (d ChangeDescriptor) Empty() bool {
	return d.Count == 0 && d.Loss.Empty()
}

// Diff computes the change between two validated headers of a window with the given
// capacity. The loss check runs before the ranges are computed: when at least a full
// window was written since prev, the pre-existing unread region no longer exists and the
// ranges start at the current first valid index.
func Diff(capacity int, prev, cur Header) ChangeDescriptor {
	d := ChangeDescriptor{Offset: int64(cur.TotalWritten), Loss: NoLoss}
	if cur.TotalWritten == prev.TotalWritten {
		return d
	}
	last := int(cur.NextWrite) - 1
	if last < 0 {
		last = capacity - 1
	}
	written := int64(cur.TotalWritten) - int64(prev.TotalWritten)
	switch {
	case written >= int64(capacity):
		d.Loss = LossRange{
			Start: int64(prev.TotalWritten),
			End:   int64(cur.TotalWritten) - 1 - int64(capacity),
		}
		if d.Loss.Empty() {
			d.Loss = NoLoss
		}
		first := int(cur.FirstValid)
		if first == 0 {
			d.Ranges = []Range{mustRange(0, last)}
		} else {
			d.Ranges = []Range{mustRange(first, capacity-1), mustRange(0, last)}
		}
	case int(prev.NextWrite) <= last:
		d.Ranges = []Range{mustRange(int(prev.NextWrite), last)}
	default:
		d.Ranges = []Range{mustRange(int(prev.NextWrite), capacity-1), mustRange(0, last)}
	}
	for _, r := range d.Ranges {
		d.Count += r.Len()
	}
	d.Offset -= int64(d.Count)
	return d
}

func mustRange(start, end int) Range {
	if start > end {
		panic(fmt.Sprintf("BUG: computed change range [%d, %d] has start after end", start, end))
	}
	return Range{Start: start, End: end}
}

// Extract copies the bytes described by d out of the window storage, in logical order.
func Extract(storage []byte, d ChangeDescriptor) []byte {
	out := make([]byte, 0, d.Count)
	for _, r := range d.Ranges {
		out = append(out, storage[r.Start:r.End+1]...)
	}
	return out
}
