package pubsub

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPublish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	mesh, err := mocknet.FullMeshConnected(3)
	require.NoError(t, err)

	const topic = "test"
	var (
		mu       sync.Mutex
		received = map[peer.ID][]string{}
	)
	pubs := make([]*PubSub, 0, len(mesh.Hosts()))
	for _, h := range mesh.Hosts() {
		ps, err := New(ctx, zaptest.NewLogger(t), h, DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, ps.Register(topic, func(_ context.Context, from peer.ID, msg []byte) error {
			if from == h.ID() {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			received[h.ID()] = append(received[h.ID()], string(msg))
			return nil
		}))
		pubs = append(pubs, ps)
	}
	require.Error(t, pubs[0].Register(topic, nil))

	i := 0
	require.Eventually(t, func() bool {
		i++
		require.NoError(t, pubs[0].Publish(ctx, topic, []byte(fmt.Sprintf("msg-%d", i))))
		mu.Lock()
		defer mu.Unlock()
		return len(received[mesh.Hosts()[1].ID()]) > 0 && len(received[mesh.Hosts()[2].ID()]) > 0
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Empty(t, received[mesh.Hosts()[0].ID()])
}

func TestPublishUnregistered(t *testing.T) {
	mesh, err := mocknet.FullMeshConnected(1)
	require.NoError(t, err)
	ps, err := New(context.Background(), zaptest.NewLogger(t), mesh.Hosts()[0], DefaultConfig())
	require.NoError(t, err)
	require.ErrorContains(t, ps.Publish(context.Background(), "unknown", []byte("msg")), "unregistered")
}
