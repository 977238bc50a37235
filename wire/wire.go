// Package wire defines the messages exchanged between peers synchronizing windows and
// streams.
package wire

import (
	"fmt"

	"github.com/zeebo/blake3"
	"go.uber.org/zap/zapcore"
)

//go:generate scalegen

const (
	// PayloadLimit bounds recovery and catch-up payloads.
	PayloadLimit = 64 << 20
	// ChunkLimit bounds the number of chunks in a catch-up payload.
	ChunkLimit = 1 << 20
	// SourceLimit bounds the length of a peer id in a chunk.
	SourceLimit = 128
	// DigestSize is the size of payload checksums.
	DigestSize = 32
)

// Kind identifies a message.
type Kind uint8

const (
	// KindSnapshot is broadcast by the write authority with the state of an instance.
	KindSnapshot Kind = iota + 1
	// KindRecoveryRequest asks a peer for the bytes of the range in the key.
	KindRecoveryRequest
	// KindRecoveryData carries the requested bytes.
	KindRecoveryData
	// KindRecoveryUnavailable tells the requester that the range cannot be served.
	KindRecoveryUnavailable
	// KindRecoveryProgress reports the progress of a transfer that is still running.
	KindRecoveryProgress
	// KindCatchUpRequest asks a peer for the full history of a stream.
	KindCatchUpRequest
	// KindCatchUpConfirm tells the requester that a catch-up payload is on its way.
	KindCatchUpConfirm
	// KindCatchUpData carries the encoded chunks of a stream.
	KindCatchUpData
	// KindCatchUpUnavailable tells the requester that the peer cannot serve its history.
	KindCatchUpUnavailable
	// KindStreamChunk carries a single chunk appended to a stream.
	KindStreamChunk
	// KindStreamAppend carries data that a writer other than the authority asks the
	// authority to append.
	KindStreamAppend
)

var kindNames = map[Kind]string{
	KindSnapshot:            "snapshot",
	KindRecoveryRequest:     "recovery_request",
	KindRecoveryData:        "recovery_data",
	KindRecoveryUnavailable: "recovery_unavailable",
	KindRecoveryProgress:    "recovery_progress",
	KindCatchUpRequest:      "catchup_request",
	KindCatchUpConfirm:      "catchup_confirm",
	KindCatchUpData:         "catchup_data",
	KindCatchUpUnavailable:  "catchup_unavailable",
	KindStreamChunk:         "stream_chunk",
	KindStreamAppend:        "stream_append",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Key routes point-to-point messages to an instance and a request on the receiving side.
type Key struct {
	// Instance is the id of the window or stream on both sides.
	Instance uint32
	// Origin is the short id of the requesting peer, or of the source for stream chunks.
	Origin uint32
	// Start and End are inclusive logical offsets.
	Start, End int32
}

func (k Key) Len() int64 {
	return int64(k.End) - int64(k.Start) + 1
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%08x/[%d, %d]", k.Instance, k.Origin, k.Start, k.End)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (k Key) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("instance", k.Instance)
	enc.AddUint32("origin", k.Origin)
	enc.AddInt32("start", k.Start)
	enc.AddInt32("end", k.End)
	return nil
}

// Digest is a blake3 checksum of a payload.
type Digest [DigestSize]byte

// Checksum computes the digest of data.
func Checksum(data []byte) Digest {
	return blake3.Sum256(data)
}

// Message is the envelope of every point-to-point and broadcast message.
type Message struct {
	Kind Kind
	Key  Key
	// Progress is in parts per million, set for KindRecoveryProgress.
	Progress uint32
	// Digest is set for messages with a checksummed payload.
	Digest  Digest
	Payload []byte
}

// NewData creates a message whose payload is protected by a checksum.
func NewData(kind Kind, key Key, payload []byte) *Message {
	return &Message{Kind: kind, Key: key, Digest: Checksum(payload), Payload: payload}
}

// Verify checks the payload against the digest.
func (m *Message) Verify() bool {
	return Checksum(m.Payload) == m.Digest
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m *Message) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("kind", m.Kind.String())
	if err := enc.AddObject("key", m.Key); err != nil {
		return err
	}
	enc.AddInt("payload", len(m.Payload))
	return nil
}

// Chunk is a piece of an append-only stream.
type Chunk struct {
	Source string
	// Timestamp is in unix nanoseconds.
	Timestamp int64
	Offset    uint64
	Data      []byte
}

// End is the offset after the last byte of the chunk.
func (c *Chunk) End() uint64 {
	return c.Offset + uint64(len(c.Data))
}

// StreamState is broadcast by the authority of a stream.
type StreamState struct {
	TotalLength uint64
}
