package history

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("history store is closed")

const keyPrefix = "launch/"

// Record is the usage of one catalog entry
type Record struct {
	ID       string
	LastUsed time.Time
	Count    uint64
}

// Store keeps launch history in BadgerDB. Keys are "launch/<entry id>", values
// are the last use as unix nanoseconds followed by the launch count, both
// big-endian uint64.
type Store struct {
	db *badger.DB
	mu sync.Mutex // serializes Record's read-modify-write
}

// logAdapter routes badger's logging into the application log
type logAdapter struct{}

var _ badger.Logger = logAdapter{}

func (logAdapter) Errorf(msg string, items ...any)   { log.Printf("badger ERROR: "+msg, items...) }
func (logAdapter) Warningf(msg string, items ...any) { log.Printf("badger WARN: "+msg, items...) }
func (logAdapter) Infof(msg string, items ...any)    {}
func (logAdapter) Debugf(msg string, items ...any)   {}

// Open opens the store at path, creating the directory when needed.
// With inMemory the path is ignored and nothing touches disk.
func Open(path string, inMemory bool) (*Store, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = logAdapter{}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

// Record notes a launch of id at the given time
func (s *Store) Record(id string, at time.Time) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	key := []byte(keyPrefix + id)

	// Two overlapping updates of one key would fail with badger.ErrConflict
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		rec := Record{ID: id}
		item, err := txn.Get(key)
		switch {
		case err == nil:
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if rec, err = decode(id, val); err != nil {
				return err
			}
		case errors.Is(err, badger.ErrKeyNotFound):
		default:
			return err
		}

		rec.Count++
		if at.After(rec.LastUsed) {
			rec.LastUsed = at
		}
		return txn.Set(key, encode(rec))
	})
}

// Get returns the record for id
func (s *Store) Get(id string) (Record, bool, error) {
	if s.db.IsClosed() {
		return Record{}, false, ErrClosed
	}

	var rec Record
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		rec, err = decode(id, val)
		found = err == nil
		return err
	})
	return rec, found, err
}

// Recent returns up to limit records, most recently used first, ties by id
func (s *Store) Recent(limit int) ([]Record, error) {
	if s.db.IsClosed() {
		return nil, ErrClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	var records []Record
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(keyPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := strings.TrimPrefix(string(item.KeyCopy(nil)), keyPrefix)
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := decode(id, val)
			if err != nil {
				log.Printf("History: skipping %s: %v", id, err)
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	slices.SortFunc(records, func(a, b Record) int {
		if c := b.LastUsed.Compare(a.LastUsed); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// RecentIDs is Recent reduced to entry ids
func (s *Store) RecentIDs(limit int) ([]string, error) {
	records, err := s.Recent(limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids, nil
}

func encode(r Record) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], uint64(r.LastUsed.UnixNano()))
	binary.BigEndian.PutUint64(buf[8:], r.Count)
	return buf
}

func decode(id string, val []byte) (Record, error) {
	if len(val) != 16 {
		return Record{}, fmt.Errorf("corrupt history value for %s: %d bytes", id, len(val))
	}
	return Record{
		ID:       id,
		LastUsed: time.Unix(0, int64(binary.BigEndian.Uint64(val[:8]))),
		Count:    binary.BigEndian.Uint64(val[8:]),
	}, nil
}
