package node

import (
	"go.uber.org/zap"

	"github.com/ringsync/go-ringsync/entry"
	"github.com/ringsync/go-ringsync/recovery"
	"github.com/ringsync/go-ringsync/ring"
	"github.com/ringsync/go-ringsync/snapshot"
	"github.com/ringsync/go-ringsync/wire"
)

// windowHandler returns a handler that logs what happens to a window. Windows of game
// events are decoded.
func windowHandler(logger *zap.Logger, entrySize int) snapshot.Handler {
	if entrySize == GameEventSize {
		return snapshot.NewEntries[GameEvent](logger, &gameLog{logger: logger})
	}
	return &bytesLog{logger: logger}
}

type gameLog struct {
	logger *zap.Logger
}

func (g *gameLog) logEvents(msg string, padding []byte, events []GameEvent) {
	for _, ev := range events {
		g.logger.Info(msg, zap.Object("event", ev))
	}
	if len(padding) > 0 {
		g.logger.Debug("partial event skipped", zap.Int("size", len(padding)))
	}
}

func (g *gameLog) OnNewEntries(padding []byte, events []GameEvent) {
	g.logEvents("game event", padding, events)
}

func (g *gameLog) OnDataLoss(loss ring.LossRange) {
	g.logger.Warn("game events overwritten before observed", zap.Object("loss", loss))
}

func (g *gameLog) OnLossRestored(req recovery.Request, padding []byte, events []GameEvent) {
	g.logger.Info("game events restored", zap.Object("request", req), zap.Int("events", len(events)))
	g.logEvents("restored game event", padding, events)
}

func (g *gameLog) OnPermanentLoss(req recovery.Request) {
	g.logger.Warn("game events lost", zap.Object("request", req))
}

func (g *gameLog) OnHistory(padding []byte, events []GameEvent) {
	g.logger.Info("game log is complete", zap.Int("events", len(events)), zap.Int("padding", len(padding)))
}

type bytesLog struct {
	logger *zap.Logger
}

func (b *bytesLog) OnNewBytes(offset int64, data []byte) {
	b.logger.Debug("new bytes", zap.Int64("offset", offset), zap.Int("size", len(data)))
}

func (b *bytesLog) OnDataLoss(loss ring.LossRange) {
	b.logger.Warn("bytes overwritten before observed", zap.Object("loss", loss))
}

func (b *bytesLog) OnLossRestored(req recovery.Request, data []byte) {
	b.logger.Info("bytes restored", zap.Object("request", req), zap.Int("size", len(data)))
}

func (b *bytesLog) OnPermanentLoss(req recovery.Request) {
	b.logger.Warn("bytes lost", zap.Object("request", req))
}

func (b *bytesLog) OnAllLossesResolved(history []byte) {
	b.logger.Info("history is complete", zap.Int("size", len(history)))
}

type streamLog struct {
	logger *zap.Logger
}

func (s *streamLog) OnChunk(chunk wire.Chunk) {
	if len(chunk.Data)%GameEventSize == 0 {
		if _, events, err := entry.Split[GameEvent](chunk.Data); err == nil {
			for _, ev := range events {
				s.logger.Info("game event", zap.Uint64("offset", chunk.Offset), zap.Object("event", ev))
			}
			return
		}
	}
	s.logger.Debug("chunk",
		zap.Uint64("offset", chunk.Offset),
		zap.Int("size", len(chunk.Data)),
		zap.String("source", chunk.Source),
	)
}

func (s *streamLog) OnCaughtUp(total uint64) {
	s.logger.Info("stream history received", zap.Uint64("total", total))
}

func (s *streamLog) OnMissingData() {
	s.logger.Warn("no peer could serve the stream history")
}
