// Package pubsub broadcasts messages to every peer with gossipsub. Handlers run as topic
// validators, so a message is relayed further only after the local handler accepted it.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	pb "github.com/libp2p/go-libp2p-pubsub/pb"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

func init() {
	pubsub.GossipSubDirectConnectInitialDelay = 5 * time.Second
	pubsub.GossipSubIWantFollowupTime = 5 * time.Second
	pubsub.GossipSubHistoryLength = 10
}

// ErrValidationReject is returned by a handler for messages that are malformed and must
// not be relayed. Other errors only stop the message from being relayed.
var ErrValidationReject = errors.New("validation reject")

// DefaultConfig for PubSub.
func DefaultConfig() Config {
	return Config{Flood: true, MaxMessageSize: 2 << 20}
}

// Config for PubSub.
type Config struct {
	Flood          bool `mapstructure:"flood"`
	MaxMessageSize int  `mapstructure:"max-message-size"`
}

// GossipHandler is a function that is for receiving messages. The peer is the signed
// author of the message, not the peer that relayed it.
type GossipHandler = func(context.Context, peer.ID, []byte) error

// PubSub is a wrapper around gossipsub that keeps joined topics.
type PubSub struct {
	logger *zap.Logger
	pubsub *pubsub.PubSub

	mu     sync.RWMutex
	topics map[string]*pubsub.Topic
}

// New creates PubSub instance.
func New(ctx context.Context, logger *zap.Logger, h host.Host, cfg Config) (*PubSub, error) {
	ps, err := pubsub.NewGossipSub(ctx, h, getOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gossipsub instance: %w", err)
	}
	return &PubSub{
		logger: logger,
		pubsub: ps,
		topics: map[string]*pubsub.Topic{},
	}, nil
}

// Register handler for topic. Messages published by this host are passed to the handler
// as well.
func (ps *PubSub) Register(topic string, handler GossipHandler) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if _, exist := ps.topics[topic]; exist {
		return fmt.Errorf("topic %s is already registered", topic)
	}
	err := ps.pubsub.RegisterTopicValidator(
		topic,
		func(ctx context.Context, _ peer.ID, msg *pubsub.Message) pubsub.ValidationResult {
			pid := msg.GetFrom()
			err := handler(ctx, pid, msg.Data)
			switch {
			case errors.Is(err, ErrValidationReject):
				ps.logger.Debug("topic validation failed",
					zap.String("topic", topic),
					zap.Stringer("peer", pid),
					zap.Error(err),
				)
				return pubsub.ValidationReject
			case err != nil:
				return pubsub.ValidationIgnore
			default:
				return pubsub.ValidationAccept
			}
		})
	if err != nil {
		return fmt.Errorf("register validator for %s: %w", topic, err)
	}
	topich, err := ps.pubsub.Join(topic)
	if err != nil {
		return fmt.Errorf("failed to join a topic %s: %w", topic, err)
	}
	if _, err := topich.Relay(); err != nil {
		return fmt.Errorf("failed to enable relay for topic %s: %w", topic, err)
	}
	ps.topics[topic] = topich
	return nil
}

// Publish message to the topic.
func (ps *PubSub) Publish(ctx context.Context, topic string, msg []byte) error {
	ps.mu.RLock()
	topich := ps.topics[topic]
	ps.mu.RUnlock()
	if topich == nil {
		return fmt.Errorf("publish to unregistered topic %s", topic)
	}
	if err := topich.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to topic %v: %w", topic, err)
	}
	return nil
}

// ProtocolPeers returns list of peers that are subscribed to a topic.
func (ps *PubSub) ProtocolPeers(topic string) []peer.ID {
	return ps.pubsub.ListPeers(topic)
}

func msgID(msg *pb.Message) string {
	hasher := blake3.New()
	if msg.Topic != nil {
		hasher.Write([]byte(*msg.Topic))
	}
	hasher.Write(msg.Data)
	return string(hasher.Sum(nil))
}

func getOptions(cfg Config) []pubsub.Option {
	options := []pubsub.Option{
		pubsub.WithFloodPublish(cfg.Flood),
		pubsub.WithMessageIdFn(msgID),
		pubsub.WithMessageSignaturePolicy(pubsub.StrictSign),
		pubsub.WithPeerOutboundQueueSize(8192),
		pubsub.WithValidateQueueSize(8192),
	}
	if cfg.MaxMessageSize != 0 {
		options = append(options, pubsub.WithMaxMessageSize(cfg.MaxMessageSize))
	}
	return options
}
