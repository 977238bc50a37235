// Package entry splits flat byte streams into fixed-size typed records and joins them back.
package entry

import (
	"errors"
	"fmt"
)

// ErrEntrySize is returned when an entry type reports a non-positive size or encodes
// to a different number of bytes than it reports.
var ErrEntrySize = errors.New("invalid entry size")

// Entry is a fixed-size record.
type Entry interface {
	// EntrySize is the encoded size. It must be the same for every value of the type.
	EntrySize() int
	// AppendEntry appends exactly EntrySize bytes to dst.
	AppendEntry(dst []byte) []byte
}

// Ptr is the constraint for pointers to decodable entries.
type Ptr[T any] interface {
	*T
	Entry
	// DecodeEntry fills the entry from exactly EntrySize bytes.
	DecodeEntry(src []byte) error
}

// Size returns the encoded size of T.
func Size[T any, P Ptr[T]]() int {
	var v T
	return P(&v).EntrySize()
}

// Split partitions data into a leading padding of len(data) mod size bytes followed by
// whole entries. The remainder is attributed to the start because a stream that ends on
// an entry boundary may begin in the middle of an entry.
func Split[T any, P Ptr[T]](data []byte) ([]byte, []T, error) {
	size := Size[T, P]()
	if size <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrEntrySize, size)
	}
	count := len(data) / size
	paddingLen := len(data) - count*size
	padding := data[:paddingLen:paddingLen]
	entries := make([]T, count)
	for i := range entries {
		start := paddingLen + i*size
		if err := P(&entries[i]).DecodeEntry(data[start : start+size]); err != nil {
			return nil, nil, fmt.Errorf("decode entry %d: %w", i, err)
		}
	}
	return padding, entries, nil
}

// Join is the inverse of Split.
func Join[T any, P Ptr[T]](padding []byte, entries []T) ([]byte, error) {
	size := Size[T, P]()
	out := make([]byte, 0, len(padding)+len(entries)*size)
	out = append(out, padding...)
	for i := range entries {
		before := len(out)
		out = P(&entries[i]).AppendEntry(out)
		if len(out)-before != size {
			return nil, fmt.Errorf("%w: entry %d encoded to %d bytes, expected %d",
				ErrEntrySize, i, len(out)-before, size)
		}
	}
	return out, nil
}

// Encode is Join for a single entry without padding.
func Encode[T any, P Ptr[T]](e T) ([]byte, error) {
	return Join[T, P](nil, []T{e})
}
