package node

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// GameEventSize is the encoded size of a GameEvent.
const GameEventSize = 16

// Action of a card game turn.
type Action uint8

const (
	Ask Action = iota + 1
	Give
	GoFish
	Book
)

func (a Action) String() string {
	switch a {
	case Ask:
		return "ask"
	case Give:
		return "give"
	case GoFish:
		return "go_fish"
	case Book:
		return "book"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// GameEvent is a record of the game log written by the demo writer.
//
// Layout, little-endian: Seq uint32 | Player uint16 | Target uint16 | Action uint8 |
// Rank uint8 | Count uint8 | reserved uint8 | Millis uint32.
type GameEvent struct {
	Seq    uint32
	Player uint16
	Target uint16
	Action Action
	Rank   uint8
	Count  uint8
	// Millis is the time of the event in milliseconds, truncated to 32 bits.
	Millis uint32
}

func (e *GameEvent) EntrySize() int {
	return GameEventSize
}

func (e *GameEvent) AppendEntry(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, e.Seq)
	dst = binary.LittleEndian.AppendUint16(dst, e.Player)
	dst = binary.LittleEndian.AppendUint16(dst, e.Target)
	dst = append(dst, byte(e.Action), e.Rank, e.Count, 0)
	return binary.LittleEndian.AppendUint32(dst, e.Millis)
}

func (e *GameEvent) DecodeEntry(src []byte) error {
	if len(src) != GameEventSize {
		return fmt.Errorf("game event of %d bytes", len(src))
	}
	e.Seq = binary.LittleEndian.Uint32(src)
	e.Player = binary.LittleEndian.Uint16(src[4:])
	e.Target = binary.LittleEndian.Uint16(src[6:])
	e.Action = Action(src[8])
	e.Rank = src[9]
	e.Count = src[10]
	e.Millis = binary.LittleEndian.Uint32(src[12:])
	return nil
}

func (e GameEvent) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("seq", e.Seq)
	enc.AddUint16("player", e.Player)
	enc.AddUint16("target", e.Target)
	enc.AddString("action", e.Action.String())
	enc.AddUint8("rank", e.Rank)
	enc.AddUint8("count", e.Count)
	return nil
}

// nextEvent deals the next turn of the demo game between players.
func nextEvent(seq uint32, players uint16, millis uint32) GameEvent {
	player := uint16(seq % uint32(players))
	return GameEvent{
		Seq:    seq,
		Player: player,
		Target: (player + 1) % players,
		Action: Action(seq%4 + 1),
		Rank:   uint8(seq%13 + 1),
		Count:  uint8(seq%3 + 1),
		Millis: millis,
	}
}
