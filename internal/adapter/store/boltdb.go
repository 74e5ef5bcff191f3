package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"cirag/internal/domain"
)

var (
	bucketChunks = []byte("chunks")
	bucketStats  = []byte("stats")
	keyStats     = []byte("corpus_stats")
)

// BoltStore persists an ingested corpus so repeated questions skip pack
// parsing. Chunk keys are big-endian sequence numbers, preserving corpus
// order on iteration.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketChunks, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) PutChunks(chunks []domain.DocumentChunk) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketChunks)
		for _, chunk := range chunks {
			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)

			data, err := json.Marshal(chunk)
			if err != nil {
				return fmt.Errorf("failed to marshal chunk: %w", err)
			}
			if err := bucket.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) ListChunks() ([]domain.DocumentChunk, error) {
	var chunks []domain.DocumentChunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketChunks).ForEach(func(_, v []byte) error {
			var chunk domain.DocumentChunk
			if err := json.Unmarshal(v, &chunk); err != nil {
				return fmt.Errorf("failed to unmarshal chunk: %w", err)
			}
			chunks = append(chunks, chunk)
			return nil
		})
	})
	return chunks, err
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStats).Get(keyStats)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

func (s *BoltStore) UpdateStats(stats domain.Stats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keyStats, data)
	})
}

// Clear drops all chunks but keeps stats; callers bump the stats
// generation after re-ingesting so caches invalidate.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketChunks); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketChunks)
		return err
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
