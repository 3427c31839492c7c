package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/bookdigest/core"
	"github.com/poiesic/bookdigest/storage"
)

// DigestRepository implements storage.DigestRepository for BadgerDB.
type DigestRepository struct {
	backend *Backend
}

var _ storage.DigestRepository = (*DigestRepository)(nil)

// NewDigestRepository creates a digest archive on backend.
func NewDigestRepository(backend *Backend) storage.DigestRepository {
	return newDigestRepository(backend)
}

func newDigestRepository(backend *Backend) *DigestRepository {
	return &DigestRepository{backend: backend}
}

// SaveDigest stores digest under its RunID, indexes it by date and marks it latest.
func (r *DigestRepository) SaveDigest(ctx context.Context, digest *core.DigestResult) error {
	if digest == nil {
		return fmt.Errorf("%w: digest is nil", storage.ErrInvalidQuery)
	}
	value, err := storage.MarshalDigest(digest)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDigestKey(digest.RunID)

		// Drop the date index entry of a digest being replaced
		old, err := r.readDigest(tx, key)
		if err != nil {
			return err
		}
		if old != nil && !old.Date.Equal(digest.Date) {
			if err := tx.Delete(makeDigestDateKey(old.Date, old.RunID)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, value); err != nil {
			return err
		}
		runID := storage.MarshalRunID(digest.RunID)
		if err := tx.Set(makeDigestDateKey(digest.Date, digest.RunID), runID); err != nil {
			return err
		}
		if err := tx.Set([]byte(digestLatestKey), runID); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LatestDigest returns the most recently saved digest.
func (r *DigestRepository) LatestDigest(ctx context.Context) (*core.DigestResult, error) {
	var digest *core.DigestResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(digestLatestKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		var id core.RunID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalRunID(val)
			return err
		}); err != nil {
			return err
		}

		digest, err = r.readDigest(tx, makeDigestKey(id))
		if err != nil {
			return err
		}
		if digest == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return digest, nil
}

// GetDigest returns the digest stored under id.
func (r *DigestRepository) GetDigest(ctx context.Context, id core.RunID) (*core.DigestResult, error) {
	var digest *core.DigestResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		digest, err = r.readDigest(tx, makeDigestKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		return nil, storage.ErrNotFound
	}
	return digest, nil
}

// ListRuns returns up to limit runs ordered by digest date, newest first.
func (r *DigestRepository) ListRuns(ctx context.Context, limit int) ([]storage.RunSummary, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0, got %d", storage.ErrInvalidQuery, limit)
	}

	var runs []storage.RunSummary
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key with this prefix
		startKey := append(makePartialDigestDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)), 0xff)
		prefix := []byte(digestDatePrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var id core.RunID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalRunID(val)
				return err
			}); err != nil {
				return err
			}

			digest, err := r.readDigest(tx, makeDigestKey(id))
			if err != nil {
				return err
			}
			if digest == nil {
				continue
			}
			runs = append(runs, storage.RunSummary{
				RunID:      digest.RunID,
				Date:       digest.Date,
				TotalCount: digest.TotalCount,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// readDigest reads a digest within a transaction.
// Returns nil, nil if the key does not exist.
func (r *DigestRepository) readDigest(tx *badger.Txn, key []byte) (*core.DigestResult, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var digest *core.DigestResult
	err = item.Value(func(val []byte) error {
		var err error
		digest, err = storage.UnmarshalDigest(val)
		return err
	})
	return digest, err
}
