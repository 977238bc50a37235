// Package archive keeps a durable copy of the complete history of every window, so that a
// restarted peer continues where it stopped and can still serve recovery requests.
package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"

	"github.com/ringsync/go-ringsync/cache"
	"github.com/ringsync/go-ringsync/codec"
	"github.com/ringsync/go-ringsync/ring"
)

// ErrNotFound is returned for instances that were never archived.
var ErrNotFound = errors.New("instance not archived")

const (
	prefixRecord byte = 'r'
	prefixMeta   byte = 'm'

	defaultCacheSize = 16
)

//go:generate scalegen -types Meta

// Meta describes an archived window.
type Meta struct {
	Capacity  uint32
	EntrySize uint32
}

type Opt func(*Archive)

func WithLogger(logger *zap.Logger) Opt {
	return func(a *Archive) {
		a.logger = logger
	}
}

// WithCacheSize sets the number of assembled histories kept in memory.
func WithCacheSize(size int) Opt {
	return func(a *Archive) {
		a.cacheSize = size
	}
}

// Archive is a leveldb database of history ranges keyed by instance and logical offset.
// It is safe for concurrent use.
type Archive struct {
	logger    *zap.Logger
	cacheSize int
	path      string
	db        *leveldb.DB
	histories *lru.Cache[uint32, *History]
}

// Open opens or creates the archive in the directory.
func Open(path string, opts ...Opt) (*Archive, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		Filter: filter.NewBloomFilter(10),
	})
	var corrupted *lerrors.ErrCorrupted
	if errors.As(err, &corrupted) {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return newArchive(path, db, opts...)
}

// OpenMemory opens an archive that is not persisted.
func OpenMemory(opts ...Opt) (*Archive, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open memory archive: %w", err)
	}
	return newArchive(":memory:", db, opts...)
}

func newArchive(path string, db *leveldb.DB, opts ...Opt) (*Archive, error) {
	a := &Archive{
		logger:    zap.NewNop(),
		cacheSize: defaultCacheSize,
		path:      path,
		db:        db,
	}
	for _, opt := range opts {
		opt(a)
	}
	histories, err := lru.New[uint32, *History](a.cacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history cache: %w", err)
	}
	a.histories = histories
	a.logger.Info("archive opened", zap.String("path", path))
	return a, nil
}

// Close closes database, flushing writes and denying all new write requests.
func (a *Archive) Close() error {
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close archive %s: %w", a.path, err)
	}
	return nil
}

func recordKey(instance uint32, offset int64) []byte {
	key := make([]byte, 13)
	key[0] = prefixRecord
	binary.BigEndian.PutUint32(key[1:], instance)
	binary.BigEndian.PutUint64(key[5:], uint64(offset))
	return key
}

func instancePrefix(prefix byte, instance uint32) []byte {
	key := make([]byte, 5)
	key[0] = prefix
	binary.BigEndian.PutUint32(key[1:], instance)
	return key
}

// Store persists a range of the history.
func (a *Archive) Store(instance uint32, offset int64, data []byte) error {
	if offset < 0 {
		return fmt.Errorf("store negative offset %d", offset)
	}
	if err := a.db.Put(recordKey(instance, offset), data, nil); err != nil {
		return fmt.Errorf("put record %d/%d: %w", instance, offset, err)
	}
	a.histories.Remove(instance)
	return nil
}

// SetMeta records the layout of a window.
func (a *Archive) SetMeta(instance uint32, meta Meta) error {
	if err := a.db.Put(instancePrefix(prefixMeta, instance), codec.MustEncode(&meta), nil); err != nil {
		return fmt.Errorf("put meta %d: %w", instance, err)
	}
	return nil
}

// GetMeta returns the layout of a window.
func (a *Archive) GetMeta(instance uint32) (Meta, error) {
	var meta Meta
	buf, err := a.db.Get(instancePrefix(prefixMeta, instance), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return meta, fmt.Errorf("%w: %d", ErrNotFound, instance)
	case err != nil:
		return meta, fmt.Errorf("get meta %d: %w", instance, err)
	}
	if err := codec.Decode(buf, &meta); err != nil {
		return meta, fmt.Errorf("decode meta %d: %w", instance, err)
	}
	return meta, nil
}

// Instances returns the ids of windows with a recorded layout.
func (a *Archive) Instances() ([]uint32, error) {
	it := a.db.NewIterator(util.BytesPrefix([]byte{prefixMeta}), nil)
	defer it.Release()
	var rst []uint32
	for it.Next() {
		rst = append(rst, binary.BigEndian.Uint32(it.Key()[1:]))
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("iterate instances: %w", err)
	}
	return rst, nil
}

// Sink returns a cache sink that writes through to the archive.
func (a *Archive) Sink(instance uint32) cache.Sink {
	return &sink{archive: a, instance: instance}
}

type sink struct {
	archive  *Archive
	instance uint32
}

func (s *sink) Store(offset int64, data []byte) error {
	return s.archive.Store(s.instance, offset, data)
}

// Load rebuilds the complete cache of the instance. Ranges that were never stored are
// holes of the returned cache, and every range stored into it later is archived.
func (a *Archive) Load(instance uint32) (*cache.Cache, error) {
	c := cache.New(cache.WithSink(a.Sink(instance)))
	err := a.iterate(instance, func(offset int64, data []byte) error {
		return c.Restore(offset, data)
	})
	if err != nil {
		return nil, err
	}
	if c.Len() > 0 {
		a.logger.Info("history loaded",
			zap.Uint32("instance", instance),
			zap.Int64("length", c.Len()),
			zap.Int("holes", len(c.Holes())),
		)
	}
	return c, nil
}

func (a *Archive) iterate(instance uint32, fn func(offset int64, data []byte) error) error {
	it := a.db.NewIterator(util.BytesPrefix(instancePrefix(prefixRecord, instance)), nil)
	defer it.Release()
	for it.Next() {
		offset := int64(binary.BigEndian.Uint64(it.Key()[5:]))
		// value is only valid until the next call to Next
		if err := fn(offset, slices.Clone(it.Value())); err != nil {
			return fmt.Errorf("restore record %d/%d: %w", instance, offset, err)
		}
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("iterate records of %d: %w", instance, err)
	}
	return nil
}

// History is a read-only view of an archived history.
type History struct {
	Data  []byte
	Holes []ring.LossRange
}

// History returns the archived history of an instance. Assembled histories are cached
// until the instance is written again.
func (a *Archive) History(instance uint32) (*History, error) {
	if h, ok := a.histories.Get(instance); ok {
		return h, nil
	}
	c := cache.New()
	err := a.iterate(instance, func(offset int64, data []byte) error {
		return c.Put(offset, data)
	})
	if err != nil {
		return nil, err
	}
	h := &History{Data: c.Bytes(), Holes: c.Holes()}
	a.histories.Add(instance, h)
	return h, nil
}

// Export writes the archived history of an instance to a file. Holes are written as zero
// bytes and returned.
func (a *Archive) Export(fs afero.Fs, path string, instance uint32) ([]ring.LossRange, error) {
	h, err := a.History(instance)
	if err != nil {
		return nil, err
	}
	if err := afero.WriteFile(fs, path, h.Data, 0o644); err != nil {
		return nil, fmt.Errorf("export %d to %s: %w", instance, path, err)
	}
	a.logger.Info("history exported",
		zap.Uint32("instance", instance),
		zap.String("path", path),
		zap.Int("length", len(h.Data)),
		zap.Int("holes", len(h.Holes)),
	)
	return h.Holes, nil
}
