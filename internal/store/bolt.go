package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var bucketRecords = []byte("records")

// BoltStore implements Store on a single-file bbolt database.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database at path and initializes the
// records bucket.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save stores a new record, assigning its id, timestamps and generation.
func (s *BoltStore) Save(ctx context.Context, rec *Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)

		if b.Get([]byte(rec.ID)) != nil {
			return &AlreadyExistsError{ID: rec.ID}
		}

		now := time.Now().UTC()
		rec.CreatedAt = now
		rec.UpdatedAt = now
		rec.Generation = 1

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		return b.Put([]byte(rec.ID), data)
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Get retrieves a record by id.
func (s *BoltStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		data := b.Get([]byte(id))
		if data == nil {
			return &NotFoundError{ID: id}
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update overwrites an existing record. The caller's Generation must match
// the stored one; on success the generation is bumped and UpdatedAt
// refreshed.
func (s *BoltStore) Update(ctx context.Context, rec *Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)

		existing := b.Get([]byte(rec.ID))
		if existing == nil {
			return &NotFoundError{ID: rec.ID}
		}

		var old Record
		if err := json.Unmarshal(existing, &old); err != nil {
			return fmt.Errorf("failed to decode existing record: %w", err)
		}

		if old.Generation != rec.Generation {
			return &ConflictError{
				ID:      rec.ID,
				Message: fmt.Sprintf("generation mismatch: expected %d, got %d", old.Generation, rec.Generation),
			}
		}

		rec.CreatedAt = old.CreatedAt
		rec.Generation++
		rec.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		return b.Put([]byte(rec.ID), data)
	})
}

// Delete removes a record by id.
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		if b.Get([]byte(id)) == nil {
			return &NotFoundError{ID: id}
		}
		return b.Delete([]byte(id))
	})
}

// List returns all records, newest update first.
func (s *BoltStore) List(ctx context.Context) ([]*Record, error) {
	var records []*Record

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		return b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortByUpdatedAt(records)
	return records, nil
}

func sortByUpdatedAt(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
}
