package ring

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap/zapcore"
)

const (
	// HeaderSize is the size of the encoded header that precedes the circular data region.
	HeaderSize = 8
	// MaxCapacity is bounded by the int16 indices of the header.
	MaxCapacity = math.MaxInt16
	// Unset is the value of FirstValid before the first write.
	Unset int16 = -1
)

var (
	// ErrInconsistentHeader is returned for headers that could not have been produced by a Window.
	ErrInconsistentHeader = errors.New("inconsistent window header")
	// ErrShortHeader is returned when decoding less than HeaderSize bytes.
	ErrShortHeader = errors.New("short window header")
)

// Header is the replicated state of a Window.
//
// The wire layout is little-endian: int32 TotalWritten | int16 FirstValid | int16 NextWrite.
type Header struct {
	// TotalWritten counts every byte ever appended, it may exceed the capacity.
	TotalWritten int32
	// FirstValid is the circular index of the oldest byte still in the window.
	FirstValid int16
	// NextWrite is the circular index where the next byte lands.
	NextWrite int16
}

// EmptyHeader is the header of a window that was never written to.
func EmptyHeader() Header {
	return Header{FirstValid: Unset}
}

// Wrapped is true once all of the capacity was consumed at least once.
func (h Header) Wrapped(capacity int) bool {
	return int64(h.TotalWritten) >= int64(capacity)
}

// Encode writes the header into the first HeaderSize bytes of dst.
func (h Header) Encode(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], uint32(h.TotalWritten))
	binary.LittleEndian.PutUint16(dst[4:6], uint16(h.FirstValid))
	binary.LittleEndian.PutUint16(dst[6:8], uint16(h.NextWrite))
}

// DecodeHeader reads a header from the first HeaderSize bytes of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(buf))
	}
	return Header{
		TotalWritten: int32(binary.LittleEndian.Uint32(buf[0:4])),
		FirstValid:   int16(binary.LittleEndian.Uint16(buf[4:6])),
		NextWrite:    int16(binary.LittleEndian.Uint16(buf[6:8])),
	}, nil
}

// Validate checks that the header is reachable by a sequence of writes into a window
// of the given capacity.
func (h Header) Validate(capacity int) error {
	switch {
	case h.TotalWritten < 0:
		return fmt.Errorf("%w: negative total %d", ErrInconsistentHeader, h.TotalWritten)
	case h.TotalWritten == 0:
		if h.FirstValid != Unset || h.NextWrite != 0 {
			return fmt.Errorf("%w: empty window with indices %d/%d",
				ErrInconsistentHeader, h.FirstValid, h.NextWrite)
		}
		return nil
	case h.NextWrite < 0 || int(h.NextWrite) >= capacity:
		return fmt.Errorf("%w: next write %d out of [0, %d)", ErrInconsistentHeader, h.NextWrite, capacity)
	case int(h.NextWrite) != int(h.TotalWritten)%capacity:
		return fmt.Errorf("%w: next write %d does not match total %d",
			ErrInconsistentHeader, h.NextWrite, h.TotalWritten)
	}
	expectFirst := int16(0)
	if h.Wrapped(capacity) {
		expectFirst = h.NextWrite
	}
	if h.FirstValid != expectFirst {
		return fmt.Errorf("%w: first valid %d, expected %d", ErrInconsistentHeader, h.FirstValid, expectFirst)
	}
	return nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (h Header) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt32("total", h.TotalWritten)
	enc.AddInt16("first", h.FirstValid)
	enc.AddInt16("next", h.NextWrite)
	return nil
}
