package blobfile

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore is a Store over a Badger database.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Dir is the database directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps the whole database in RAM. Useful for tests.
	InMemory bool
}

// OpenBadger opens or creates a Badger-backed store.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	var bo badger.Options
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		bo = badger.DefaultOptions(opts.Dir)
	}
	bo = bo.WithLogger(quietLogger{})
	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("blobfile: open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("blobfile: get: %w", err)
	}
	return value, nil
}

func (s *BadgerStore) Set(ctx context.Context, key, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("blobfile: set: %w", err)
	}
	return nil
}

func (s *BadgerStore) Delete(ctx context.Context, key []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("blobfile: delete: %w", err)
	}
	return nil
}

func (s *BadgerStore) Keys(ctx context.Context, prefix []byte) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		stopped := false
		err := s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false
			opts.Prefix = prefix
			it := txn.NewIterator(opts)
			defer it.Close()
			for it.Rewind(); it.Valid(); it.Next() {
				if !yield(it.Item().KeyCopy(nil), nil) {
					stopped = true
					return nil
				}
			}
			return nil
		})
		if err != nil && !stopped {
			yield(nil, fmt.Errorf("blobfile: iterate: %w", err))
		}
	}
}

func (s *BadgerStore) BatchSet(ctx context.Context, entries []Entry) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, e := range entries {
		if err := wb.Set(e.Key, e.Value); err != nil {
			return fmt.Errorf("blobfile: batch set: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("blobfile: batch set: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

// quietLogger keeps Badger's chatty info and debug output out of the logs.
type quietLogger struct{}

func (quietLogger) Errorf(format string, args ...any) {
	slog.Error("badger: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (quietLogger) Warningf(format string, args ...any) {
	slog.Warn("badger: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (quietLogger) Infof(string, ...any)  {}
func (quietLogger) Debugf(string, ...any) {}
