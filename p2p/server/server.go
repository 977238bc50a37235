// Package server delivers point-to-point messages over libp2p streams. Every message is
// sent on its own stream, framed with a uvarint length, and acknowledged by the receiver
// once its handler accepted it.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/libp2p/go-msgio"
	"github.com/multiformats/go-varint"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ringsync/go-ringsync/codec"
)

var (
	// ErrNotConnected is returned when peer is not connected.
	ErrNotConnected = errors.New("peer is not connected")
	// ErrRequestTooLarge is returned when a request exceeds the size limit.
	ErrRequestTooLarge = errors.New("request exceeds size limit")
)

// Host is the subset of libp2p host used by the server.
type Host interface {
	ID() peer.ID
	SetStreamHandler(protocol.ID, network.StreamHandler)
	RemoveStreamHandler(protocol.ID)
	NewStream(context.Context, peer.ID, ...protocol.ID) (network.Stream, error)
	Network() network.Network
}

// Opt is a type to configure a server.
type Opt func(s *Server)

// WithTimeout configures stream timeout.
// The stream is reset when a frame is not read or written within the timeout.
func WithTimeout(timeout time.Duration) Opt {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// WithHardTimeout bounds the total duration of a request, including the handler.
func WithHardTimeout(timeout time.Duration) Opt {
	return func(s *Server) {
		s.hardTimeout = timeout
	}
}

// WithLogger configures logger for the server.
func WithLogger(logger *zap.Logger) Opt {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithRequestSizeLimit(limit int) Opt {
	return func(s *Server) {
		s.requestLimit = limit
	}
}

// WithMetrics will enable metrics collection in the server.
func WithMetrics() Opt {
	return func(s *Server) {
		s.metrics = newTracker(s.protocol)
	}
}

// WithQueueSize parametrize number of streams that will be kept in queue
// and eventually processed by server. Otherwise stream is closed immediately.
//
// Defaults to 1000.
func WithQueueSize(size int) Opt {
	return func(s *Server) {
		s.queueSize = size
	}
}

// WithRequestsPerInterval parametrizes server rate limit.
//
// Defaults to 1000 requests per second.
func WithRequestsPerInterval(n int, interval time.Duration) Opt {
	return func(s *Server) {
		s.requestsPerInterval = n
		s.interval = interval
	}
}

// Handler accepts a message from a peer. A returned error is sent back to the sender.
type Handler func(ctx context.Context, from peer.ID, msg []byte) error

// ServerError is used by the client to represent an error returned by the server.
type ServerError struct {
	msg string
}

func NewServerError(msg string) *ServerError {
	return &ServerError{msg: msg}
}

func (*ServerError) Is(target error) bool {
	_, ok := target.(*ServerError)
	return ok
}

func (err *ServerError) Error() string {
	return fmt.Sprintf("peer error: %s", err.msg)
}

//go:generate scalegen -types Response

// Response acknowledges a message.
type Response struct {
	Error string `scale:"max=1024"`
}

// Server for the Handler.
type Server struct {
	logger              *zap.Logger
	protocol            string
	handler             Handler
	timeout             time.Duration
	hardTimeout         time.Duration
	requestLimit        int
	queueSize           int
	requestsPerInterval int
	interval            time.Duration

	metrics *tracker // metrics can be nil

	h Host
}

// New server for the handler.
func New(h Host, proto string, handler Handler, opts ...Opt) *Server {
	srv := &Server{
		logger:              zap.NewNop(),
		protocol:            proto,
		handler:             handler,
		h:                   h,
		timeout:             25 * time.Second,
		hardTimeout:         5 * time.Minute,
		requestLimit:        64 << 20,
		queueSize:           1000,
		requestsPerInterval: 1000,
		interval:            time.Second,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

type request struct {
	stream   network.Stream
	received time.Time
}

// Run accepts streams until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	limit := rate.NewLimiter(rate.Every(s.interval/time.Duration(s.requestsPerInterval)), s.requestsPerInterval)
	queue := make(chan request, s.queueSize)
	if s.metrics != nil {
		s.metrics.queueCapacity.Set(float64(s.queueSize))
		s.metrics.rate.Set(float64(limit.Limit()))
	}
	s.h.SetStreamHandler(protocol.ID(s.protocol), func(stream network.Stream) {
		select {
		case queue <- request{stream: stream, received: time.Now()}:
			if s.metrics != nil {
				s.metrics.queueLen.Set(float64(len(queue)))
				s.metrics.accepted.Inc()
			}
		default:
			if s.metrics != nil {
				s.metrics.dropped.Inc()
			}
			stream.Reset()
		}
	})
	defer s.h.RemoveStreamHandler(protocol.ID(s.protocol))

	var eg errgroup.Group
	eg.SetLimit(s.queueSize)
	for {
		select {
		case <-ctx.Done():
			eg.Wait()
			return nil
		case req := <-queue:
			if err := limit.Wait(ctx); err != nil {
				req.stream.Reset()
				eg.Wait()
				return nil
			}
			eg.Go(func() error {
				ok := s.queueHandler(ctx, req.stream)
				if s.metrics != nil {
					s.metrics.handleLatency.Observe(time.Since(req.received).Seconds())
					if ok {
						s.metrics.handled.Inc()
					} else {
						s.metrics.rejected.Inc()
					}
				}
				return nil
			})
		}
	}
}

func (s *Server) queueHandler(ctx context.Context, stream network.Stream) bool {
	defer stream.Close()
	ctx, cancel := context.WithTimeout(ctx, s.hardTimeout)
	defer cancel()
	remote := stream.Conn().RemotePeer()
	logger := s.logger.With(
		zap.String("protocol", s.protocol),
		zap.Stringer("remotePeer", remote),
	)
	stream.SetDeadline(time.Now().Add(s.timeout))
	buf, err := msgio.NewVarintReaderSize(stream, s.requestLimit).ReadMsg()
	switch {
	case errors.Is(err, msgio.ErrMsgTooLarge):
		logger.Warn("message exceeds size limit", zap.Int("limit", s.requestLimit))
		stream.Reset()
		return false
	case err != nil:
		logger.Debug("failed to read message", zap.Error(err))
		stream.Reset()
		return false
	}
	start := time.Now()
	var resp Response
	if err := s.handler(ctx, remote, buf); err != nil {
		logger.Debug("handler reported error", zap.Error(err))
		resp.Error = truncate(err.Error(), 1024)
	}
	stream.SetDeadline(time.Now().Add(s.timeout))
	if err := writeResponse(stream, &resp); err != nil {
		logger.Debug("failed to write response", zap.Error(err))
		stream.Reset()
		return false
	}
	logger.Debug("protocol handler execution time", zap.Duration("duration", time.Since(start)))
	return resp.Error == ""
}

// Request delivers a message to the peer and waits until it is acknowledged.
func (s *Server) Request(ctx context.Context, pid peer.ID, req []byte) error {
	start := time.Now()
	if len(req) > s.requestLimit {
		return fmt.Errorf("%w: length %d, limit %d", ErrRequestTooLarge, len(req), s.requestLimit)
	}
	if s.h.Network().Connectedness(pid) != network.Connected {
		return fmt.Errorf("%w: %s", ErrNotConnected, pid)
	}
	ctx, cancel := context.WithTimeout(ctx, s.hardTimeout)
	defer cancel()
	err := s.request(ctx, pid, req)
	s.logger.Debug("request execution time",
		zap.String("protocol", s.protocol),
		zap.Stringer("peer", pid),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)

	took := time.Since(start).Seconds()
	switch {
	case s.metrics == nil:
	case errors.Is(err, &ServerError{}):
		s.metrics.refused.Inc()
		s.metrics.ackLatency.Observe(took)
	case err != nil:
		s.metrics.failed.Inc()
		s.metrics.failLatency.Observe(took)
	default:
		s.metrics.acked.Inc()
		s.metrics.ackLatency.Observe(took)
	}
	return err
}

func (s *Server) request(ctx context.Context, pid peer.ID, req []byte) error {
	stream, err := s.h.NewStream(
		network.WithNoDial(ctx, "existing connection"),
		pid,
		protocol.ID(s.protocol),
	)
	if err != nil {
		return fmt.Errorf("new stream to %s: %w", pid, err)
	}
	defer stream.Close()
	if deadline, ok := ctx.Deadline(); ok {
		stream.SetDeadline(deadline)
	}
	wr := bufio.NewWriter(stream)
	if _, err := wr.Write(varint.ToUvarint(uint64(len(req)))); err != nil {
		stream.Reset()
		return fmt.Errorf("peer %s address %s: %w", pid, stream.Conn().RemoteMultiaddr(), err)
	}
	if _, err := wr.Write(req); err != nil {
		stream.Reset()
		return fmt.Errorf("peer %s address %s: %w", pid, stream.Conn().RemoteMultiaddr(), err)
	}
	if err := wr.Flush(); err != nil {
		stream.Reset()
		return fmt.Errorf("peer %s address %s: %w", pid, stream.Conn().RemoteMultiaddr(), err)
	}
	var resp Response
	if _, err := codec.DecodeFrom(bufio.NewReader(stream), &resp); err != nil {
		stream.Reset()
		return fmt.Errorf("peer %s: %w", pid, err)
	}
	if resp.Error != "" {
		return NewServerError(resp.Error)
	}
	return nil
}

// NumAcceptedRequests returns the number of accepted requests for this server.
// It is used for testing.
func (s *Server) NumAcceptedRequests() int {
	if s.metrics == nil {
		return -1
	}
	m := &dto.Metric{}
	if err := s.metrics.accepted.Write(m); err != nil {
		panic("failed to get metric: " + err.Error())
	}
	return int(m.Counter.GetValue())
}

func writeResponse(w io.Writer, resp *Response) error {
	wr := bufio.NewWriter(w)
	if _, err := codec.EncodeTo(wr, resp); err != nil {
		return fmt.Errorf("failed to write response (err len %d): %w", len(resp.Error), err)
	}
	if err := wr.Flush(); err != nil {
		return fmt.Errorf("failed to write response (err len %d): %w", len(resp.Error), err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
