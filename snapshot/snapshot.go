// Package snapshot replicates a window from its write authority to observers. The
// authority broadcasts the encoded window, observers diff every received snapshot against
// the last one they saw and deliver the new bytes in logical order. Ranges that were
// overwritten in between are handed to the recovery engine.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ringsync/go-ringsync/cache"
	"github.com/ringsync/go-ringsync/p2p"
	"github.com/ringsync/go-ringsync/recovery"
	"github.com/ringsync/go-ringsync/ring"
	"github.com/ringsync/go-ringsync/wire"
)

// DefaultRebroadcastInterval is how often an unchanged window is broadcast again, so that
// peers which joined late observe it.
const DefaultRebroadcastInterval = time.Second

var (
	// ErrNotAuthority is returned when a peer without write authority writes to a window or
	// broadcasts its state.
	ErrNotAuthority = errors.New("no write authority")
	// ErrStale is returned for snapshots older than the state that was already observed.
	ErrStale = errors.New("stale snapshot")
)

// State of an engine.
type State uint8

const (
	Idle State = iota
	// Awaiting the first snapshot from the authority.
	Awaiting
	Steady
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Awaiting:
		return "awaiting"
	case Steady:
		return "steady"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

type Opt func(*Engine)

func WithLogger(logger *zap.Logger) Opt {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the clock of the engine and of its recovery engine.
func WithClock(clock clockwork.Clock) Opt {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithCache uses a pre-populated complete cache, for example one restored from the
// archive.
func WithCache(c *cache.Cache) Opt {
	return func(e *Engine) {
		e.history = c
	}
}

func WithRebroadcastInterval(d time.Duration) Opt {
	return func(e *Engine) {
		e.rebroadcast = d
	}
}

// WithRecovery passes options to the recovery engine.
func WithRecovery(opts ...recovery.Opt) Opt {
	return func(e *Engine) {
		e.recoveryOpts = append(e.recoveryOpts, opts...)
	}
}

type observation struct {
	header  ring.Header
	storage []byte
}

// Engine synchronizes a single window instance. It is driven by Tick and by the Handle*
// methods and must not be used concurrently.
type Engine struct {
	logger       *zap.Logger
	clock        clockwork.Clock
	rebroadcast  time.Duration
	recoveryOpts []recovery.Opt

	instance    uint32
	roster      recovery.Roster
	broadcaster Broadcaster
	handler     Handler

	window   *ring.Window
	history  *cache.Cache
	recovery *recovery.Engine

	state         State
	observed      ring.Header
	pending       *observation
	dirty         bool
	lastBroadcast time.Time
}

func New(
	instance uint32,
	capacity int,
	sender recovery.Sender,
	roster recovery.Roster,
	broadcaster Broadcaster,
	handler Handler,
	opts ...Opt,
) (*Engine, error) {
	window, err := ring.NewWindow(capacity)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		logger:      zap.NewNop(),
		clock:       clockwork.NewRealClock(),
		rebroadcast: DefaultRebroadcastInterval,
		instance:    instance,
		roster:      roster,
		broadcaster: broadcaster,
		handler:     handler,
		window:      window,
		observed:    ring.EmptyHeader(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.history == nil {
		e.history = cache.New()
	}
	if e.history.Len() > 0 {
		// the restored window continues where the history ends
		if err := e.window.Write(e.history.Bytes()); err != nil {
			return nil, fmt.Errorf("restore window %d: %w", instance, err)
		}
		e.observed = e.window.Header()
	}
	ropts := append([]recovery.Opt{
		recovery.WithLogger(e.logger.Named("recovery")),
		recovery.WithClock(e.clock),
	}, e.recoveryOpts...)
	e.recovery = recovery.New(instance, sender, roster, e.history, (*events)(e), ropts...)
	e.logger = e.logger.With(zap.Uint32("instance", instance))
	return e, nil
}

func (e *Engine) Instance() uint32 {
	return e.instance
}

func (e *Engine) State() State {
	return e.state
}

// Header returns the last observed header. On the authority it is the header of the
// local window.
func (e *Engine) Header() ring.Header {
	return e.observed
}

// History is the complete cache of the window.
func (e *Engine) History() *cache.Cache {
	return e.history
}

// Outstanding returns the losses that are still being recovered.
func (e *Engine) Outstanding() []recovery.Request {
	return e.recovery.Outstanding()
}

// Lost returns the losses that no peer could serve.
func (e *Engine) Lost() []ring.LossRange {
	return e.recovery.Lost()
}

// Start enables the engine. Holes of a restored history are tracked for recovery.
func (e *Engine) Start(ctx context.Context) {
	if e.state != Idle {
		return
	}
	if e.isAuthority() {
		e.state = Steady
		e.dirty = e.observed.TotalWritten > 0
	} else {
		e.state = Awaiting
	}
	e.logger.Info("window started",
		zap.Stringer("state", e.state),
		zap.Int("capacity", e.window.Capacity()),
		zap.Object("header", e.observed),
	)
	for _, hole := range e.history.Holes() {
		e.recovery.Track(ctx, hole)
	}
}

// Close stops the engine. No further requests are issued after Close returns.
func (e *Engine) Close() {
	e.recovery.Close()
	e.state = Idle
	e.pending = nil
}

// AddData appends data to the window. Only the write authority may call it.
func (e *Engine) AddData(data []byte) error {
	if !e.isAuthority() {
		return fmt.Errorf("%w: window %d", ErrNotAuthority, e.instance)
	}
	if len(data) == 0 {
		return nil
	}
	offset := int64(e.window.Header().TotalWritten)
	if err := e.window.Write(data); err != nil {
		return err
	}
	if err := e.history.Append(offset, data); err != nil {
		return fmt.Errorf("append to history: %w", err)
	}
	e.observed = e.window.Header()
	e.dirty = true
	writtenBytes.Add(float64(len(data)))
	e.handler.OnNewBytes(offset, data)
	return nil
}

// HandleSnapshot stores a snapshot broadcast by the authority. It is applied on the next
// tick, replacing any snapshot received since the previous one.
func (e *Engine) HandleSnapshot(from p2p.Peer, payload []byte) error {
	if e.state == Idle || e.isAuthority() {
		return nil
	}
	if authority := e.roster.Authority(e.instance); from != authority {
		droppedAuthority.Inc()
		return fmt.Errorf("%w: snapshot from %s, authority %s", ErrNotAuthority, from, authority)
	}
	header, storage, err := ring.DecodeSnapshot(payload, e.window.Capacity())
	if err != nil {
		droppedInvalid.Inc()
		return fmt.Errorf("decode snapshot from %s: %w", from, err)
	}
	latest := e.observed
	if e.pending != nil {
		latest = e.pending.header
	}
	if header.TotalWritten < latest.TotalWritten {
		droppedStale.Inc()
		return fmt.Errorf("%w: total %d, observed %d", ErrStale, header.TotalWritten, latest.TotalWritten)
	}
	e.pending = &observation{header: header, storage: storage}
	return nil
}

// HandleRecovery passes a recovery message to the recovery engine.
func (e *Engine) HandleRecovery(ctx context.Context, from p2p.Peer, msg *wire.Message) error {
	if e.state == Idle {
		return nil
	}
	return e.recovery.Handle(ctx, from, msg)
}

// Tick broadcasts the window on the authority, and applies the latest snapshot on
// observers. Recovery requests are retried on both.
func (e *Engine) Tick(ctx context.Context) {
	switch {
	case e.state == Idle:
		return
	case e.isAuthority():
		e.broadcast(ctx)
	case e.pending != nil:
		e.observe(ctx)
	}
	e.recovery.Tick(ctx)
}

func (e *Engine) isAuthority() bool {
	return e.roster.Authority(e.instance) == e.roster.Self()
}

func (e *Engine) broadcast(ctx context.Context) {
	header := e.window.Header()
	if header.TotalWritten == 0 {
		return
	}
	if !e.dirty && e.clock.Since(e.lastBroadcast) < e.rebroadcast {
		return
	}
	msg := &wire.Message{
		Kind:    wire.KindSnapshot,
		Key:     wire.Key{Instance: e.instance},
		Payload: e.window.Snapshot(),
	}
	if err := e.broadcaster.Broadcast(ctx, msg); err != nil {
		e.logger.Warn("failed to broadcast snapshot", zap.Object("header", header), zap.Error(err))
		return
	}
	broadcasts.Inc()
	e.dirty = false
	e.lastBroadcast = e.clock.Now()
}

func (e *Engine) observe(ctx context.Context) {
	obs := e.pending
	e.pending = nil
	d := ring.Diff(e.window.Capacity(), e.observed, obs.header)
	e.observed = obs.header
	if e.state == Awaiting {
		e.state = Steady
		e.logger.Info("first snapshot observed", zap.Object("header", obs.header))
	}
	if d.Empty() {
		return
	}
	if d.Count > 0 {
		data := ring.Extract(obs.storage, d)
		if err := e.history.Append(d.Offset, data); err != nil {
			e.logger.Error("failed to append to history",
				zap.Int64("offset", d.Offset),
				zap.Int("size", len(data)),
				zap.Error(err),
			)
		}
		receivedBytes.Add(float64(len(data)))
		e.logger.Debug("new bytes observed",
			zap.Int64("offset", d.Offset),
			zap.Int("count", d.Count),
			zap.Int("ranges", len(d.Ranges)),
		)
		e.handler.OnNewBytes(d.Offset, data)
	}
	if !d.Loss.Empty() {
		lossesDetected.Inc()
		e.handler.OnDataLoss(d.Loss)
		e.recovery.Track(ctx, d.Loss)
	}
}

// events receives recovery outcomes on behalf of the engine.
type events Engine

func (ev *events) OnLossRestored(req recovery.Request, data []byte) {
	ev.handler.OnLossRestored(req, data)
}

func (ev *events) OnPermanentLoss(req recovery.Request) {
	ev.handler.OnPermanentLoss(req)
}

func (ev *events) OnAllLossesResolved() {
	ev.logger.Info("history is complete", zap.Int64("length", ev.history.Len()))
	ev.handler.OnAllLossesResolved(ev.history.Bytes())
}
