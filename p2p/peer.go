package p2p

import (
	"encoding/binary"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/zeebo/blake3"
)

// Peer is an alias to libp2p's peer.ID.
type Peer = peer.ID

// NoPeer is used when there is no peer to pick.
const NoPeer Peer = ""

// ShortID is a 32-bit fingerprint of a peer id, used in correlation keys.
func ShortID(p Peer) uint32 {
	sum := blake3.Sum256([]byte(p))
	return binary.LittleEndian.Uint32(sum[:4])
}
