// Package ring implements a fixed-capacity circular byte window that is replicated by
// shipping its header and storage, and the computation of what changed between two
// observed headers.
package ring

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidCapacity is returned for capacities outside of (0, MaxCapacity].
	ErrInvalidCapacity = errors.New("invalid window capacity")
	// ErrTotalOverflow is returned when the total written counter would overflow int32.
	ErrTotalOverflow = errors.New("window total written overflow")
)

// Window is a single-writer circular byte store.
type Window struct {
	capacity int
	header   Header
	data     []byte
}

// NewWindow creates an empty window.
func NewWindow(capacity int) (*Window, error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Window{
		capacity: capacity,
		header:   EmptyHeader(),
		data:     make([]byte, capacity),
	}, nil
}

func (w *Window) Capacity() int {
	return w.capacity
}

func (w *Window) Header() Header {
	return w.header
}

// Storage returns the circular data region. Callers must not modify it.
func (w *Window) Storage() []byte {
	return w.data
}

// Reserve advances the header by n bytes and returns the physical positions, in circular
// order, where those n bytes must be stored. When n exceeds the capacity the first
// positions are overwritten by the later ones.
func (w *Window) Reserve(n int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}
	if int64(w.header.TotalWritten)+int64(n) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d + %d", ErrTotalOverflow, w.header.TotalWritten, n)
	}
	start := int(w.header.NextWrite)
	positions := make([]int, n)
	for i := range positions {
		positions[i] = (start + i) % w.capacity
	}
	if w.header.FirstValid == Unset {
		w.header.FirstValid = 0
	}
	w.header.NextWrite = int16((start + n) % w.capacity)
	w.header.TotalWritten += int32(n)
	if w.header.Wrapped(w.capacity) {
		w.header.FirstValid = w.header.NextWrite
	}
	return positions, nil
}

// Write appends p to the window.
func (w *Window) Write(p []byte) error {
	positions, err := w.Reserve(len(p))
	if err != nil {
		return err
	}
	// only the tail that fits survives
	skip := max(len(p)-w.capacity, 0)
	for i := skip; i < len(p); i++ {
		w.data[positions[i]] = p[i]
	}
	return nil
}

// Snapshot encodes the header followed by a copy of the storage.
func (w *Window) Snapshot() []byte {
	buf := make([]byte, HeaderSize+w.capacity)
	w.header.Encode(buf)
	copy(buf[HeaderSize:], w.data)
	return buf
}

// DecodeSnapshot splits an encoded snapshot into its header and storage.
func DecodeSnapshot(buf []byte, capacity int) (Header, []byte, error) {
	hdr, err := DecodeHeader(buf)
	if err != nil {
		return Header{}, nil, err
	}
	if len(buf)-HeaderSize != capacity {
		return Header{}, nil, fmt.Errorf("snapshot storage is %d bytes, capacity %d", len(buf)-HeaderSize, capacity)
	}
	if err := hdr.Validate(capacity); err != nil {
		return Header{}, nil, err
	}
	return hdr, buf[HeaderSize:], nil
}
