package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/sciencesync/internal/client/storage"
	"github.com/iudanet/sciencesync/internal/models"
)

// Put stores a record in BoltDB keyed by its ID
func (s *Storage) Put(ctx context.Context, record *models.Record) error {
	// Сериализуем record в JSON
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketRecords)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		// Сохраняем по ключу ID
		if err := bucket.Put([]byte(record.ID), data); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		return nil
	})
}

// Get retrieves a record by ID
func (s *Storage) Get(ctx context.Context, id string) (*models.Record, error) {
	var record *models.Record

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return storage.ErrRecordNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrRecordNotFound
		}

		// Десериализуем
		record = &models.Record{}
		if err := json.Unmarshal(data, record); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetAll returns all stored records in bucket key order
func (s *Storage) GetAll(ctx context.Context) ([]*models.Record, error) {
	var records []*models.Record

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			// Нет bucket - возвращаем пустой список
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var record models.Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}
			records = append(records, &record)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get all records: %w", err)
	}

	return records, nil
}

// Delete removes a record by ID.
// Returns ErrRecordNotFound if the record is already gone, which a
// concurrent sync run may legitimately have caused. Callers treat
// that as a no-op, never a failure.
func (s *Storage) Delete(ctx context.Context, id string) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return storage.ErrRecordNotFound
		}

		if bucket.Get([]byte(id)) == nil {
			return storage.ErrRecordNotFound
		}

		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		return nil
	})
}
