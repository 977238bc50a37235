// Package cache keeps the complete logical history of a replicated window, including
// the ranges that were lost and are still waiting to be recovered.
package cache

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ringsync/go-ringsync/ring"
)

var (
	// ErrOverlap is returned when data is put over bytes that are already present.
	ErrOverlap = errors.New("data overlaps cached bytes")
	// ErrNegativeOffset is returned for offsets below zero.
	ErrNegativeOffset = errors.New("negative offset")
)

// Sink receives every byte range stored in the cache.
type Sink interface {
	Store(offset int64, data []byte) error
}

// Opt configures a Cache.
type Opt func(*Cache)

// WithSink writes every stored range through to the sink.
func WithSink(sink Sink) Opt {
	return func(c *Cache) {
		c.sink = sink
	}
}

// WithCapacity preallocates the buffer.
func WithCapacity(n int) Opt {
	return func(c *Cache) {
		c.buf = make([]byte, 0, n)
	}
}

// Cache is not safe for concurrent use.
type Cache struct {
	buf   []byte
	holes []ring.LossRange
	sink  Sink
}

func New(opts ...Opt) *Cache {
	c := &Cache{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len is the logical length, holes included.
func (c *Cache) Len() int64 {
	return int64(len(c.buf))
}

// Holes returns the ranges that are still missing, sorted by offset.
func (c *Cache) Holes() []ring.LossRange {
	return slices.Clone(c.holes)
}

// Complete is true when no holes remain.
func (c *Cache) Complete() bool {
	return len(c.holes) == 0
}

// Bytes returns the whole history. Bytes inside holes are zero.
// The returned slice must not be modified.
func (c *Cache) Bytes() []byte {
	return c.buf
}

// Append stores data at offset, which must not be below Len. Anything between Len and
// offset becomes a hole.
func (c *Cache) Append(offset int64, data []byte) error {
	if offset < c.Len() {
		return fmt.Errorf("%w: append at %d, length %d", ErrOverlap, offset, c.Len())
	}
	return c.Put(offset, data)
}

// Splice fills data into a hole. The range must lie completely inside a single hole.
func (c *Cache) Splice(offset int64, data []byte) error {
	rng := ring.LossRange{Start: offset, End: offset + int64(len(data)) - 1}
	if rng.Empty() {
		return nil
	}
	if c.holeIndex(rng) < 0 {
		return fmt.Errorf("%w: splice %s outside of missing ranges", ErrOverlap, rng)
	}
	return c.Put(offset, data)
}

// Put stores data at offset. Offsets at or above Len extend the cache, offsets below Len
// must fall inside a hole.
func (c *Cache) Put(offset int64, data []byte) error {
	if offset < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeOffset, offset)
	}
	if len(data) == 0 {
		return nil
	}
	end := offset + int64(len(data)) - 1
	switch {
	case offset >= c.Len():
		if offset > c.Len() {
			c.holes = append(c.holes, ring.LossRange{Start: c.Len(), End: offset - 1})
		}
		c.grow(end + 1)
	case end >= c.Len():
		return fmt.Errorf("%w: put [%d, %d] crosses the end at %d", ErrOverlap, offset, end, c.Len())
	default:
		idx := c.holeIndex(ring.LossRange{Start: offset, End: end})
		if idx < 0 {
			return fmt.Errorf("%w: put [%d, %d] outside of missing ranges", ErrOverlap, offset, end)
		}
		c.fill(idx, ring.LossRange{Start: offset, End: end})
	}
	copy(c.buf[offset:], data)
	if c.sink != nil {
		if err := c.sink.Store(offset, data); err != nil {
			return fmt.Errorf("store [%d, %d]: %w", offset, end, err)
		}
	}
	return nil
}

// Restore is Put without writing through to the sink. It is used to load a cache from
// the archive the sink writes to.
func (c *Cache) Restore(offset int64, data []byte) error {
	sink := c.sink
	c.sink = nil
	defer func() { c.sink = sink }()
	return c.Put(offset, data)
}

// Slice returns a copy of the inclusive range [start, end] if all of it is present.
func (c *Cache) Slice(start, end int64) ([]byte, bool) {
	rng := ring.LossRange{Start: start, End: end}
	if start < 0 || rng.Empty() || end >= c.Len() {
		return nil, false
	}
	for _, hole := range c.holes {
		if hole.Overlaps(rng) {
			return nil, false
		}
	}
	return slices.Clone(c.buf[start : end+1]), true
}

// Has reports whether the inclusive range is fully present.
func (c *Cache) Has(rng ring.LossRange) bool {
	_, ok := c.Slice(rng.Start, rng.End)
	return ok
}

func (c *Cache) holeIndex(rng ring.LossRange) int {
	for i, hole := range c.holes {
		if hole.Start <= rng.Start && rng.End <= hole.End {
			return i
		}
	}
	return -1
}

// fill removes rng from the hole at idx, splitting it if needed.
func (c *Cache) fill(idx int, rng ring.LossRange) {
	hole := c.holes[idx]
	var rest []ring.LossRange
	if hole.Start < rng.Start {
		rest = append(rest, ring.LossRange{Start: hole.Start, End: rng.Start - 1})
	}
	if rng.End < hole.End {
		rest = append(rest, ring.LossRange{Start: rng.End + 1, End: hole.End})
	}
	c.holes = slices.Replace(c.holes, idx, idx+1, rest...)
}

// grow extends the logical length to n, doubling the allocation when it runs out.
func (c *Cache) grow(n int64) {
	if int64(cap(c.buf)) < n {
		buf := make([]byte, len(c.buf), max(2*int64(cap(c.buf)), n))
		copy(buf, c.buf)
		c.buf = buf
	}
	c.buf = c.buf[:n]
}
