// Package recovery re-fetches byte ranges of a window that were overwritten before they
// could be observed. Requests go to the write authority first and then to every other
// connected peer, one at a time, until one of them serves the range or all were asked.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ringsync/go-ringsync/p2p"
	"github.com/ringsync/go-ringsync/p2p/peers"
	"github.com/ringsync/go-ringsync/ring"
	"github.com/ringsync/go-ringsync/wire"
)

const (
	// DefaultRetryInterval is how long a peer gets to answer before the next one is asked.
	DefaultRetryInterval = 5 * time.Second
	// payloads above this size are sent as progress segments followed by the tail.
	segmentSize   = 64 << 10
	progressScale = 1_000_000
)

var (
	// ErrLengthMismatch is returned when a peer answers with a payload whose length does not
	// match the requested range.
	ErrLengthMismatch = errors.New("recovered payload length mismatch")
	// ErrChecksum is returned when a payload does not match its digest.
	ErrChecksum = errors.New("recovered payload checksum mismatch")
)

// Status of a recovery request.
type Status uint8

const (
	Requesting Status = iota
	Recovered
	NoAnswer
)

func (s Status) String() string {
	switch s {
	case Requesting:
		return "requesting"
	case Recovered:
		return "recovered"
	case NoAnswer:
		return "no_answer"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Request tracks a single lost range.
type Request struct {
	Range ring.LossRange
	Key   wire.Key
	// Asked holds every peer that was sent a request, in order.
	Asked       []p2p.Peer
	Target      p2p.Peer
	Created     time.Time
	LastRequest time.Time
	// Progress of an in-flight transfer, from 0 to 1.
	Progress float64
	Status   Status

	// segments received from the target so far
	received []byte
}

func (r *Request) asked(p p2p.Peer) bool {
	return slices.Contains(r.Asked, p)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (r Request) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if err := enc.AddObject("range", r.Range); err != nil {
		return err
	}
	enc.AddString("status", r.Status.String())
	enc.AddString("target", r.Target.String())
	enc.AddInt("asked", len(r.Asked))
	enc.AddFloat64("progress", r.Progress)
	return nil
}

// Opt configures an Engine.
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

// WithRetryInterval sets how long a request may stay unanswered before the next peer is asked.
func WithRetryInterval(d time.Duration) Opt {
	return func(e *Engine) {
		e.retryInterval = d
	}
}

// WithPeers orders fallback peers by their observed responsiveness and feeds the outcome
// of every request back into the tracker.
func WithPeers(p *peers.Peers) Opt {
	return func(e *Engine) {
		e.peers = p
	}
}

// Engine recovers lost ranges of a single instance. It is driven by Tick and by the
// Handle* methods and must not be used concurrently.
type Engine struct {
	logger        *zap.Logger
	clock         clockwork.Clock
	retryInterval time.Duration
	peers         *peers.Peers

	instance uint32
	sender   Sender
	roster   Roster
	history  History
	handler  Handler

	requests []*Request
	lost     []ring.LossRange
	closed   bool
}

func New(instance uint32, sender Sender, roster Roster, history History, handler Handler, opts ...Opt) *Engine {
	e := &Engine{
		logger:        zap.NewNop(),
		clock:         clockwork.NewRealClock(),
		retryInterval: DefaultRetryInterval,
		instance:      instance,
		sender:        sender,
		roster:        roster,
		history:       history,
		handler:       handler,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.Uint32("instance", instance))
	return e
}

// Close stops issuing and serving requests.
func (e *Engine) Close() {
	e.closed = true
}

// Outstanding returns copies of the requests that are still running.
func (e *Engine) Outstanding() []Request {
	rst := make([]Request, 0, len(e.requests))
	for _, req := range e.requests {
		cp := *req
		cp.Asked = slices.Clone(req.Asked)
		rst = append(rst, cp)
	}
	return rst
}

// Lost returns the ranges that no peer could serve.
func (e *Engine) Lost() []ring.LossRange {
	return slices.Clone(e.lost)
}

// Track starts recovering a lost range. Ranges that overlap a tracked or permanently lost
// range are ignored.
func (e *Engine) Track(ctx context.Context, loss ring.LossRange) {
	if e.closed || loss.Empty() {
		return
	}
	for _, req := range e.requests {
		if req.Range.Overlaps(loss) {
			return
		}
	}
	if e.isLost(loss) {
		return
	}
	now := e.clock.Now()
	req := &Request{
		Range: loss,
		Key: wire.Key{
			Instance: e.instance,
			Origin:   p2p.ShortID(e.roster.Self()),
			Start:    int32(loss.Start),
			End:      int32(loss.End),
		},
		Created: now,
		Status:  Requesting,
	}
	e.requests = append(e.requests, req)
	trackedRanges.Inc()
	outstanding.Inc()
	e.logger.Info("data loss detected", zap.Object("range", loss))
	e.advance(ctx, req)
}

// Tick asks the next peer for every request that stayed unanswered for the retry interval.
func (e *Engine) Tick(ctx context.Context) {
	if e.closed {
		return
	}
	now := e.clock.Now()
	for _, req := range slices.Clone(e.requests) {
		if now.Sub(req.LastRequest) < e.retryInterval {
			continue
		}
		timedOutRequests.Inc()
		e.onFailure(req.Target)
		e.logger.Debug("recovery request timed out", zap.Object("request", req))
		e.advance(ctx, req)
	}
}

// Handle dispatches a recovery message received from a peer.
func (e *Engine) Handle(ctx context.Context, from p2p.Peer, msg *wire.Message) error {
	if e.closed {
		return nil
	}
	switch msg.Kind {
	case wire.KindRecoveryRequest:
		e.HandleRequest(ctx, from, msg.Key)
	case wire.KindRecoveryData:
		return e.HandleData(ctx, from, msg)
	case wire.KindRecoveryUnavailable:
		e.HandleUnavailable(ctx, from, msg.Key)
	case wire.KindRecoveryProgress:
		return e.HandleProgress(ctx, from, msg)
	default:
		return fmt.Errorf("unexpected message %s for recovery", msg.Kind)
	}
	return nil
}

// HandleRequest serves a range from the local history, or refuses it if the range is not
// fully available here.
func (e *Engine) HandleRequest(ctx context.Context, from p2p.Peer, key wire.Key) {
	data, ok := e.serve(ring.LossRange{Start: int64(key.Start), End: int64(key.End)})
	if !ok {
		servedUnavailable.Inc()
		e.logger.Debug("cannot serve recovery request", zap.Stringer("peer", from), zap.Object("key", key))
		e.send(ctx, from, &wire.Message{Kind: wire.KindRecoveryUnavailable, Key: key})
		return
	}
	servedData.Inc()
	e.logger.Debug("serving recovery request",
		zap.Stringer("peer", from),
		zap.Object("key", key),
		zap.Int("size", len(data)),
	)
	sent := 0
	for ; len(data)-sent > segmentSize; sent += segmentSize {
		msg := wire.NewData(wire.KindRecoveryProgress, key, data[sent:sent+segmentSize])
		msg.Progress = uint32(int64(sent+segmentSize) * progressScale / int64(len(data)))
		e.send(ctx, from, msg)
	}
	// the digest of the last message covers the whole range
	e.send(ctx, from, &wire.Message{
		Kind:    wire.KindRecoveryData,
		Key:     key,
		Digest:  wire.Checksum(data),
		Payload: data[sent:],
	})
}

// HandleData completes the request for the range in the key. A payload that does not match
// the requested range is a protocol violation by the sender: the error is returned and the
// next peer is asked.
func (e *Engine) HandleData(ctx context.Context, from p2p.Peer, msg *wire.Message) error {
	req := e.lookup(msg.Key)
	if req == nil {
		e.logger.Debug("recovered data without request", zap.Stringer("peer", from), zap.Object("key", msg.Key))
		return nil
	}
	payload := msg.Payload
	if from == req.Target && len(req.received) > 0 {
		payload = append(req.received, msg.Payload...)
		req.received = nil
	}
	var err error
	switch {
	case wire.Checksum(payload) != msg.Digest:
		err = fmt.Errorf("%w: peer %s range %s", ErrChecksum, from, req.Range)
	case int64(len(payload)) != req.Range.Len():
		err = fmt.Errorf("%w: peer %s sent %d bytes for range %s",
			ErrLengthMismatch, from, len(payload), req.Range)
	}
	if err != nil {
		malformedRequests.Inc()
		e.onFailure(from)
		if from == req.Target {
			e.advance(ctx, req)
		}
		return err
	}
	if err := e.history.Splice(req.Range.Start, payload); err != nil {
		return fmt.Errorf("splice recovered range %s: %w", req.Range, err)
	}
	e.remove(req)
	req.Status = Recovered
	req.Progress = 1
	recoveredRanges.Inc()
	latency.Observe(e.clock.Since(req.Created).Seconds())
	if e.peers != nil {
		e.peers.OnLatency(from, len(payload), e.clock.Since(req.LastRequest))
	}
	e.logger.Info("data loss restored", zap.Object("request", req), zap.Stringer("peer", from))
	e.handler.OnLossRestored(*req, payload)
	if len(e.requests) == 0 && len(e.lost) == 0 {
		e.handler.OnAllLossesResolved()
	}
	return nil
}

// HandleUnavailable moves on to the next peer if the current target refused the request.
func (e *Engine) HandleUnavailable(ctx context.Context, from p2p.Peer, key wire.Key) {
	req := e.lookup(key)
	if req == nil || req.Target != from {
		return
	}
	refusedRequests.Inc()
	e.onFailure(from)
	e.logger.Debug("peer cannot serve range", zap.Stringer("peer", from), zap.Object("range", req.Range))
	e.advance(ctx, req)
}

// HandleProgress restarts the timeout of a request whose transfer is still running and
// keeps the segment it carries until the rest of the range arrives.
func (e *Engine) HandleProgress(ctx context.Context, from p2p.Peer, msg *wire.Message) error {
	req := e.lookup(msg.Key)
	if req == nil || req.Target != from {
		return nil
	}
	var err error
	switch {
	case len(msg.Payload) == 0:
	case !msg.Verify():
		err = fmt.Errorf("%w: segment from %s for range %s", ErrChecksum, from, req.Range)
	case int64(len(req.received)+len(msg.Payload)) >= req.Range.Len():
		err = fmt.Errorf("%w: peer %s sent segments past range %s", ErrLengthMismatch, from, req.Range)
	}
	if err != nil {
		malformedRequests.Inc()
		e.onFailure(from)
		e.advance(ctx, req)
		return err
	}
	req.received = append(req.received, msg.Payload...)
	req.LastRequest = e.clock.Now()
	req.Progress = min(float64(msg.Progress)/progressScale, 1)
	return nil
}

// advance sends the request to the next candidate, giving up when none is left.
func (e *Engine) advance(ctx context.Context, req *Request) {
	for {
		target := e.nextTarget(req)
		if target == p2p.NoPeer {
			e.giveUp(req)
			return
		}
		req.Target = target
		req.Asked = append(req.Asked, target)
		req.LastRequest = e.clock.Now()
		req.Progress = 0
		req.received = nil
		err := e.sender.Send(ctx, target, &wire.Message{Kind: wire.KindRecoveryRequest, Key: req.Key})
		if err == nil {
			sentRequests.Inc()
			e.logger.Debug("requested lost range", zap.Object("request", req))
			return
		}
		e.logger.Warn("failed to send recovery request",
			zap.Stringer("peer", target),
			zap.Object("range", req.Range),
			zap.Error(err),
		)
		e.onFailure(target)
	}
}

// nextTarget prefers the authority, then the most responsive peer that was not asked yet.
func (e *Engine) nextTarget(req *Request) p2p.Peer {
	self := e.roster.Self()
	connected := e.roster.Peers()
	authority := e.roster.Authority(e.instance)
	if authority != p2p.NoPeer && authority != self && !req.asked(authority) &&
		slices.Contains(connected, authority) {
		return authority
	}
	var candidates []p2p.Peer
	for _, p := range connected {
		if p != self && !req.asked(p) {
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

func (e *Engine) giveUp(req *Request) {
	e.remove(req)
	req.Status = NoAnswer
	req.Target = p2p.NoPeer
	e.lost = append(e.lost, req.Range)
	lostRanges.Inc()
	e.logger.Warn("data loss is permanent", zap.Object("request", req))
	e.handler.OnPermanentLoss(*req)
}

func (e *Engine) serve(rng ring.LossRange) ([]byte, bool) {
	if rng.Empty() || rng.Len() > wire.PayloadLimit {
		return nil, false
	}
	for _, req := range e.requests {
		if req.Range.Overlaps(rng) {
			return nil, false
		}
	}
	if e.isLost(rng) {
		return nil, false
	}
	return e.history.Slice(rng.Start, rng.End)
}

func (e *Engine) lookup(key wire.Key) *Request {
	if key.Instance != e.instance {
		return nil
	}
	for _, req := range e.requests {
		if req.Key == key {
			return req
		}
	}
	return nil
}

func (e *Engine) isLost(rng ring.LossRange) bool {
	for _, lost := range e.lost {
		if lost.Overlaps(rng) {
			return true
		}
	}
	return false
}

func (e *Engine) remove(req *Request) {
	if idx := slices.Index(e.requests, req); idx >= 0 {
		e.requests = slices.Delete(e.requests, idx, idx+1)
		outstanding.Dec()
	}
}

func (e *Engine) onFailure(p p2p.Peer) {
	if e.peers != nil && p != p2p.NoPeer {
		e.peers.OnFailure(p)
	}
}

func (e *Engine) send(ctx context.Context, to p2p.Peer, msg *wire.Message) {
	if err := e.sender.Send(ctx, to, msg); err != nil {
		e.logger.Warn("failed to send recovery message",
			zap.Stringer("peer", to),
			zap.Stringer("kind", msg.Kind),
			zap.Error(err),
		)
	}
}
