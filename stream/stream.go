// Package stream replicates an append-only stream of chunks. The authority orders every
// chunk and sends it point to point. Peers that join late request the history from the
// authority or any other peer.
package stream

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ringsync/go-ringsync/codec"
	"github.com/ringsync/go-ringsync/p2p"
	"github.com/ringsync/go-ringsync/p2p/peers"
	"github.com/ringsync/go-ringsync/wire"
)

const (
	// DefaultCatchUpWait is how long a peer gets to deliver the history before the next one
	// is asked.
	DefaultCatchUpWait         = 5 * time.Second
	DefaultRebroadcastInterval = time.Second
)

var (
	// ErrConcurrentWriters is returned when emitting while another peer could emit too.
	ErrConcurrentWriters = errors.New("stream has more than one writer")
	// ErrNoAuthority is returned when a writer other than the authority is not connected to it.
	ErrNoAuthority = errors.New("stream authority is not connected")
	// ErrNotSynced is returned when emitting before the history was received.
	ErrNotSynced = errors.New("stream history is not synchronized")
	// ErrChecksum is returned for payloads that do not match their digest.
	ErrChecksum = errors.New("stream payload checksum mismatch")
)

// Status of the local copy of the stream.
type Status uint8

const (
	Normal Status = iota
	// WaitingForData after a catch-up request was sent.
	WaitingForData
	// ReceivingData after the peer confirmed that the history is on its way.
	ReceivingData
	// MissingData when no peer could serve the history.
	MissingData
)

func (s Status) String() string {
	switch s {
	case Normal:
		return "normal"
	case WaitingForData:
		return "waiting_for_data"
	case ReceivingData:
		return "receiving_data"
	case MissingData:
		return "missing_data"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

type Opt func(*Engine)

func WithLogger(logger *zap.Logger) Opt {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithClock(clock clockwork.Clock) Opt {
	return func(e *Engine) {
		e.clock = clock
	}
}

func WithCatchUpWait(d time.Duration) Opt {
	return func(e *Engine) {
		e.wait = d
	}
}

func WithRebroadcastInterval(d time.Duration) Opt {
	return func(e *Engine) {
		e.rebroadcast = d
	}
}

// WithPeers orders the peers asked for the history by responsiveness.
func WithPeers(p *peers.Peers) Opt {
	return func(e *Engine) {
		e.peers = p
	}
}

// Engine replicates a single stream. It must not be used concurrently.
type Engine struct {
	logger      *zap.Logger
	clock       clockwork.Clock
	wait        time.Duration
	rebroadcast time.Duration
	peers       *peers.Peers

	instance    uint32
	sender      Sender
	roster      Roster
	broadcaster Broadcaster
	handler     Handler

	status  Status
	chunks  []wire.Chunk
	total   uint64
	pending map[uint64]wire.Chunk
	// remote is the last total length broadcast by the authority.
	remote uint64

	asked     []p2p.Peer
	target    p2p.Peer
	requested time.Time
	// gapSince is when chunks started waiting behind a missing one.
	gapSince time.Time

	dirty         bool
	lastBroadcast time.Time
	closed        bool
}

func New(instance uint32, sender Sender, roster Roster, broadcaster Broadcaster, handler Handler, opts ...Opt) *Engine {
	e := &Engine{
		logger:      zap.NewNop(),
		clock:       clockwork.NewRealClock(),
		wait:        DefaultCatchUpWait,
		rebroadcast: DefaultRebroadcastInterval,
		instance:    instance,
		sender:      sender,
		roster:      roster,
		broadcaster: broadcaster,
		handler:     handler,
		pending:     map[uint64]wire.Chunk{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.Uint32("instance", instance))
	return e
}

func (e *Engine) Instance() uint32 {
	return e.instance
}

func (e *Engine) Status() Status {
	return e.status
}

// Total is the length of the contiguous prefix of the stream held locally.
func (e *Engine) Total() uint64 {
	return e.total
}

// Chunks returns the contiguous prefix of the stream.
func (e *Engine) Chunks() []wire.Chunk {
	return slices.Clone(e.chunks)
}

// Close stops sending requests and replies.
func (e *Engine) Close() {
	e.closed = true
}

// Append emits data as a new chunk to every connected peer. Only a single writer is
// allowed: the authority, or the only peer besides the authority. Offsets are assigned by
// the authority, so data from the other writer is sent to the authority and comes back as
// a chunk.
func (e *Engine) Append(ctx context.Context, data []byte) error {
	if e.closed || len(data) == 0 {
		return nil
	}
	if e.status == WaitingForData || e.status == ReceivingData {
		return fmt.Errorf("%w: status %s", ErrNotSynced, e.status)
	}
	self := e.roster.Self()
	authority := e.roster.Authority(e.instance)
	if self == authority {
		return e.emit(ctx, self, data)
	}
	connected := e.roster.Peers()
	for _, p := range connected {
		if p != authority {
			return fmt.Errorf("%w: %s and %s", ErrConcurrentWriters, self, p)
		}
	}
	if !slices.Contains(connected, authority) {
		return fmt.Errorf("%w: %s", ErrNoAuthority, authority)
	}
	if e.remote > e.total {
		return fmt.Errorf("%w: %d of %d bytes", ErrNotSynced, e.total, e.remote)
	}
	key := wire.Key{Instance: e.instance, Origin: p2p.ShortID(self)}
	if err := e.sender.Send(ctx, authority, wire.NewData(wire.KindStreamAppend, key, slices.Clone(data))); err != nil {
		return fmt.Errorf("send to authority %s: %w", authority, err)
	}
	return nil
}

// emit appends a chunk at the local total and sends it to every connected peer.
func (e *Engine) emit(ctx context.Context, source p2p.Peer, data []byte) error {
	chunk := wire.Chunk{
		Source:    string(source),
		Timestamp: e.clock.Now().UnixNano(),
		Offset:    e.total,
		Data:      slices.Clone(data),
	}
	payload, err := codec.Encode(&chunk)
	if err != nil {
		return err
	}
	e.apply(chunk)
	emittedChunks.Inc()
	msg := wire.NewData(wire.KindStreamChunk, wire.Key{Instance: e.instance, Origin: p2p.ShortID(source)}, payload)
	for _, p := range e.roster.Peers() {
		e.send(ctx, p, msg)
	}
	return nil
}

// Handle dispatches a stream message received from a peer.
func (e *Engine) Handle(ctx context.Context, from p2p.Peer, msg *wire.Message) error {
	if e.closed {
		return nil
	}
	switch msg.Kind {
	case wire.KindSnapshot:
		return e.handleState(ctx, from, msg.Payload)
	case wire.KindStreamChunk:
		return e.handleChunk(from, msg)
	case wire.KindStreamAppend:
		return e.handleAppend(ctx, from, msg)
	case wire.KindCatchUpRequest:
		e.handleRequest(ctx, from, msg.Key)
	case wire.KindCatchUpConfirm:
		e.handleConfirm(from, msg.Key)
	case wire.KindCatchUpData:
		return e.handleData(ctx, from, msg)
	case wire.KindCatchUpUnavailable:
		e.handleUnavailable(ctx, from, msg.Key)
	default:
		return fmt.Errorf("unexpected message %s for stream", msg.Kind)
	}
	return nil
}

// Tick broadcasts the stream state on the authority and moves an unanswered catch-up
// request on to the next peer. A chunk that stays missing in the normal state starts a
// new catch-up.
func (e *Engine) Tick(ctx context.Context) {
	if e.closed {
		return
	}
	if e.roster.Authority(e.instance) == e.roster.Self() {
		e.broadcast(ctx)
	}
	if e.status == Normal {
		e.checkGap(ctx)
		return
	}
	if e.status != WaitingForData && e.status != ReceivingData {
		return
	}
	if e.clock.Since(e.requested) < e.wait {
		return
	}
	catchupTimeouts.Inc()
	e.onFailure(e.target)
	e.logger.Debug("catch-up request timed out", zap.Stringer("peer", e.target))
	e.advance(ctx)
}

// checkGap requests the history again when a chunk stayed missing for the catch-up wait,
// or the authority reported more data than arrived.
func (e *Engine) checkGap(ctx context.Context) {
	if len(e.pending) == 0 && e.remote <= e.total {
		e.gapSince = time.Time{}
		return
	}
	if e.gapSince.IsZero() {
		e.gapSince = e.clock.Now()
		return
	}
	if e.clock.Since(e.gapSince) < e.wait {
		return
	}
	e.gapSince = time.Time{}
	e.logger.Info("chunk is missing, requesting history",
		zap.Uint64("total", e.total),
		zap.Uint64("remote", e.remote),
		zap.Int("pending", len(e.pending)),
	)
	e.asked = []p2p.Peer{}
	e.advance(ctx)
}

func (e *Engine) broadcast(ctx context.Context) {
	if e.total == 0 || (!e.dirty && e.clock.Since(e.lastBroadcast) < e.rebroadcast) {
		return
	}
	msg := &wire.Message{
		Kind:    wire.KindSnapshot,
		Key:     wire.Key{Instance: e.instance},
		Payload: codec.MustEncode(&wire.StreamState{TotalLength: e.total}),
	}
	if err := e.broadcaster.Broadcast(ctx, msg); err != nil {
		e.logger.Warn("failed to broadcast stream state", zap.Uint64("total", e.total), zap.Error(err))
		return
	}
	e.dirty = false
	e.lastBroadcast = e.clock.Now()
}

func (e *Engine) handleState(ctx context.Context, from p2p.Peer, payload []byte) error {
	if authority := e.roster.Authority(e.instance); from != authority || authority == e.roster.Self() {
		return fmt.Errorf("stream state from %s, authority %s", from, authority)
	}
	var state wire.StreamState
	if err := codec.Decode(payload, &state); err != nil {
		return fmt.Errorf("decode stream state: %w", err)
	}
	e.remote = max(e.remote, state.TotalLength)
	if e.status == Normal && e.total == 0 && e.remote > 0 && e.asked == nil {
		e.logger.Info("joined late, requesting history", zap.Uint64("total", e.remote))
		e.asked = []p2p.Peer{}
		e.advance(ctx)
	}
	return nil
}

func (e *Engine) handleAppend(ctx context.Context, from p2p.Peer, msg *wire.Message) error {
	if authority := e.roster.Authority(e.instance); authority != e.roster.Self() {
		return fmt.Errorf("append from %s, authority %s", from, authority)
	}
	if !msg.Verify() {
		return fmt.Errorf("%w: append from %s", ErrChecksum, from)
	}
	if len(msg.Payload) == 0 {
		return nil
	}
	return e.emit(ctx, from, msg.Payload)
}

func (e *Engine) handleChunk(from p2p.Peer, msg *wire.Message) error {
	if authority := e.roster.Authority(e.instance); from != authority {
		return fmt.Errorf("chunk from %s, authority %s", from, authority)
	}
	if !msg.Verify() {
		return fmt.Errorf("%w: chunk from %s", ErrChecksum, from)
	}
	var chunk wire.Chunk
	if err := codec.Decode(msg.Payload, &chunk); err != nil {
		return fmt.Errorf("decode chunk from %s: %w", from, err)
	}
	receivedChunks.Inc()
	switch {
	case chunk.Offset < e.total:
		e.logger.Debug("duplicate chunk", zap.Uint64("offset", chunk.Offset), zap.Stringer("peer", from))
	case chunk.Offset == e.total:
		e.apply(chunk)
		e.drain()
	case e.status == MissingData && len(e.pending) == 0:
		// history is abandoned, the stream continues from the first chunk seen after it
		e.logger.Warn("skipping missing history",
			zap.Uint64("from", e.total),
			zap.Uint64("to", chunk.Offset),
		)
		e.total = chunk.Offset
		e.apply(chunk)
		e.drain()
	default:
		e.pending[chunk.Offset] = chunk
	}
	return nil
}

func (e *Engine) handleRequest(ctx context.Context, from p2p.Peer, key wire.Key) {
	if e.status != Normal || e.total == 0 {
		e.send(ctx, from, &wire.Message{Kind: wire.KindCatchUpUnavailable, Key: key})
		return
	}
	payload, err := codec.EncodeSlice(e.chunks, wire.ChunkLimit)
	if err != nil || len(payload) > wire.PayloadLimit {
		e.logger.Warn("cannot serve stream history",
			zap.Stringer("peer", from),
			zap.Int("chunks", len(e.chunks)),
			zap.Error(err),
		)
		e.send(ctx, from, &wire.Message{Kind: wire.KindCatchUpUnavailable, Key: key})
		return
	}
	catchupServed.Inc()
	e.logger.Debug("serving stream history",
		zap.Stringer("peer", from),
		zap.Int("chunks", len(e.chunks)),
		zap.Uint64("total", e.total),
	)
	e.send(ctx, from, &wire.Message{Kind: wire.KindCatchUpConfirm, Key: key})
	e.send(ctx, from, wire.NewData(wire.KindCatchUpData, key, payload))
}

func (e *Engine) handleConfirm(from p2p.Peer, key wire.Key) {
	if !e.expecting(from, key) {
		return
	}
	e.status = ReceivingData
	e.requested = e.clock.Now()
}

func (e *Engine) handleData(ctx context.Context, from p2p.Peer, msg *wire.Message) error {
	if !e.expecting(from, msg.Key) {
		return nil
	}
	var err error
	var history []wire.Chunk
	if !msg.Verify() {
		err = fmt.Errorf("%w: history from %s", ErrChecksum, from)
	} else if history, err = codec.DecodeSlice[wire.Chunk](msg.Payload, wire.ChunkLimit); err != nil {
		err = fmt.Errorf("decode history from %s: %w", from, err)
	}
	if err != nil {
		catchupFailed.Inc()
		e.onFailure(from)
		e.advance(ctx)
		return err
	}
	if e.peers != nil {
		e.peers.OnLatency(from, len(msg.Payload), e.clock.Since(e.requested))
	}
	slices.SortStableFunc(history, func(a, b wire.Chunk) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	for _, chunk := range history {
		if chunk.Offset == e.total {
			replayedChunks.Inc()
			e.apply(chunk)
		}
	}
	e.drain()
	catchupDone.Inc()
	e.status = Normal
	e.target = p2p.NoPeer
	e.logger.Info("caught up",
		zap.Stringer("peer", from),
		zap.Int("chunks", len(history)),
		zap.Uint64("total", e.total),
	)
	e.handler.OnCaughtUp(e.total)
	return nil
}

func (e *Engine) handleUnavailable(ctx context.Context, from p2p.Peer, key wire.Key) {
	if !e.expecting(from, key) {
		return
	}
	catchupRefused.Inc()
	e.onFailure(from)
	e.advance(ctx)
}

// expecting is true for replies from the current catch-up target.
func (e *Engine) expecting(from p2p.Peer, key wire.Key) bool {
	return (e.status == WaitingForData || e.status == ReceivingData) &&
		from == e.target &&
		key.Instance == e.instance &&
		key.Origin == p2p.ShortID(e.roster.Self())
}

// advance asks the next peer for the history, the authority first.
func (e *Engine) advance(ctx context.Context) {
	for {
		target := e.nextTarget()
		if target == p2p.NoPeer {
			catchupMissing.Inc()
			e.status = MissingData
			e.target = p2p.NoPeer
			e.logger.Warn("no peer can serve stream history", zap.Int("asked", len(e.asked)))
			e.drainMissing()
			e.handler.OnMissingData()
			return
		}
		e.status = WaitingForData
		e.target = target
		e.asked = append(e.asked, target)
		e.requested = e.clock.Now()
		key := wire.Key{Instance: e.instance, Origin: p2p.ShortID(e.roster.Self())}
		err := e.sender.Send(ctx, target, &wire.Message{Kind: wire.KindCatchUpRequest, Key: key})
		if err == nil {
			catchupRequests.Inc()
			e.logger.Debug("requested stream history", zap.Stringer("peer", target))
			return
		}
		e.logger.Warn("failed to send catch-up request", zap.Stringer("peer", target), zap.Error(err))
		e.onFailure(target)
	}
}

func (e *Engine) nextTarget() p2p.Peer {
	self := e.roster.Self()
	connected := e.roster.Peers()
	authority := e.roster.Authority(e.instance)
	if authority != p2p.NoPeer && authority != self && !slices.Contains(e.asked, authority) &&
		slices.Contains(connected, authority) {
		return authority
	}
	var candidates []p2p.Peer
	for _, p := range connected {
		if p != self && !slices.Contains(e.asked, p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return p2p.NoPeer
	}
	if e.peers != nil {
		candidates = e.peers.Order(candidates)
	} else {
		slices.Sort(candidates)
	}
	return candidates[0]
}

func (e *Engine) apply(chunk wire.Chunk) {
	e.chunks = append(e.chunks, chunk)
	e.total = chunk.End()
	e.dirty = true
	e.handler.OnChunk(chunk)
}

// drain applies pending chunks that became contiguous.
func (e *Engine) drain() {
	for {
		chunk, ok := e.pending[e.total]
		if !ok {
			break
		}
		delete(e.pending, e.total)
		e.apply(chunk)
	}
	for offset := range e.pending {
		if offset < e.total {
			delete(e.pending, offset)
		}
	}
}

// drainMissing abandons the history and continues from the first pending chunk.
func (e *Engine) drainMissing() {
	if len(e.pending) == 0 {
		return
	}
	first := slices.Min(slices.Collect(maps.Keys(e.pending)))
	e.logger.Warn("skipping missing history", zap.Uint64("from", e.total), zap.Uint64("to", first))
	e.total = first
	e.drain()
}

func (e *Engine) onFailure(p p2p.Peer) {
	if e.peers != nil && p != p2p.NoPeer {
		e.peers.OnFailure(p)
	}
}

func (e *Engine) send(ctx context.Context, to p2p.Peer, msg *wire.Message) {
	if err := e.sender.Send(ctx, to, msg); err != nil {
		e.logger.Warn("failed to send stream message",
			zap.Stringer("peer", to),
			zap.Stringer("kind", msg.Kind),
			zap.Error(err),
		)
	}
}
