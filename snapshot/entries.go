package snapshot

import (
	"go.uber.org/zap"

	"github.com/ringsync/go-ringsync/entry"
	"github.com/ringsync/go-ringsync/recovery"
	"github.com/ringsync/go-ringsync/ring"
)

// EntryHandler receives a window decoded into fixed-size entries.
type EntryHandler[T any] interface {
	OnNewEntries(padding []byte, entries []T)
	OnDataLoss(loss ring.LossRange)
	OnLossRestored(req recovery.Request, padding []byte, entries []T)
	OnPermanentLoss(req recovery.Request)
	// OnHistory replays the complete history once every loss was restored.
	OnHistory(padding []byte, entries []T)
}

// Entries decodes the bytes of a window into entries of type T.
type Entries[T any, P entry.Ptr[T]] struct {
	logger  *zap.Logger
	handler EntryHandler[T]
}

func NewEntries[T any, P entry.Ptr[T]](logger *zap.Logger, handler EntryHandler[T]) *Entries[T, P] {
	return &Entries[T, P]{logger: logger, handler: handler}
}

func (a *Entries[T, P]) OnNewBytes(offset int64, data []byte) {
	if padding, entries, ok := a.split(offset, data); ok {
		a.handler.OnNewEntries(padding, entries)
	}
}

func (a *Entries[T, P]) OnDataLoss(loss ring.LossRange) {
	a.handler.OnDataLoss(loss)
}

func (a *Entries[T, P]) OnLossRestored(req recovery.Request, data []byte) {
	if padding, entries, ok := a.split(req.Range.Start, data); ok {
		a.handler.OnLossRestored(req, padding, entries)
	}
}

func (a *Entries[T, P]) OnPermanentLoss(req recovery.Request) {
	a.handler.OnPermanentLoss(req)
}

func (a *Entries[T, P]) OnAllLossesResolved(history []byte) {
	if padding, entries, ok := a.split(0, history); ok {
		a.handler.OnHistory(padding, entries)
	}
}

func (a *Entries[T, P]) split(offset int64, data []byte) ([]byte, []T, bool) {
	padding, entries, err := entry.Split[T, P](data)
	if err != nil {
		a.logger.Error("failed to decode entries",
			zap.Int64("offset", offset),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return nil, nil, false
	}
	return padding, entries, true
}

// AddEntries encodes entries and appends them to the window.
func AddEntries[T any, P entry.Ptr[T]](e *Engine, entries ...T) error {
	data, err := entry.Join[T, P](nil, entries)
	if err != nil {
		return err
	}
	return e.AddData(data)
}
