// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store on goleveldb. The ledger keeps its contract storage here.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/metrics"
)

var _ kv.Store = (*LevelDB)(nil)

const minCacheMB, minOpenFiles = 16, 16

var (
	metricBulkWrites = metrics.LazyLoadCounter("lvldb_bulk_write_count")
	metricBulkOps    = metrics.LazyLoadHistogram("lvldb_bulk_ops", []int64{1, 2, 5, 10, 20, 50, 100})
)

// Options tunes a disk backed instance. Values below the minimums are raised.
type Options struct {
	CacheSize              int // MiB, split between block cache and write buffers
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cacheMB := max(o.CacheSize, minCacheMB)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minOpenFiles),
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		// leveldb holds two write buffers at a time
		WriteBuffer: cacheMB / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(10),
	}
}

var (
	readOpt  = &opt.ReadOptions{}
	writeOpt = &opt.WriteOptions{}
	syncOpt  = &opt.WriteOptions{Sync: true}
)

type LevelDB struct {
	db *leveldb.DB
}

// New opens the database at path, creating it if missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open level db storage")
	}
	return open(stg, opts)
}

// NewMem creates a database living in memory only.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get fails with an error satisfying IsNotFound if key is absent.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, readOpt)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, readOpt)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, writeOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, writeOpt)
}

// Close closes the database. Any later call fails.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

// Bulk returns a batch applied atomically, and synced to disk, by Write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &bulk{ldb.db, new(leveldb.Batch)}
}

type bulk struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *bulk) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *bulk) Len() int {
	return b.batch.Len()
}

func (b *bulk) Write() error {
	n := b.batch.Len()
	if n == 0 {
		return nil
	}
	if err := b.db.Write(b.batch, syncOpt); err != nil {
		return err
	}
	metricBulkWrites().Add(1)
	metricBulkOps().Observe(int64(n))
	return nil
}
