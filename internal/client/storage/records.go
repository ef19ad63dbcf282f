package storage

import (
	"context"

	"github.com/iudanet/sciencesync/internal/models"
)

//go:generate moq -out recordstorage_mock.go . RecordStorage

// RecordStorage defines interface for the durable on-device record queue
type RecordStorage interface {
	// Put stores a record keyed by its ID
	Put(ctx context.Context, record *models.Record) error

	// Get retrieves a record by ID
	// Returns ErrRecordNotFound if record doesn't exist
	Get(ctx context.Context, id string) (*models.Record, error)

	// GetAll returns all stored records in bucket key order
	GetAll(ctx context.Context) ([]*models.Record, error)

	// Delete removes a record by ID
	// Returns ErrRecordNotFound if the record is already gone; callers
	// treat that as a no-op because a concurrent sync run may have
	// already reconciled the record
	Delete(ctx context.Context, id string) error

	// Close releases the underlying database
	Close() error
}
