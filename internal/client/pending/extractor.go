package pending

import (
	"context"
	"log/slog"

	"github.com/iudanet/sciencesync/internal/client/storage"
	"github.com/iudanet/sciencesync/internal/models"
)

// Extractor computes the subset of stored records not yet confirmed synced
type Extractor struct {
	storage storage.RecordStorage
	logger  *slog.Logger
}

// NewExtractor creates a new pending-set extractor
func NewExtractor(recordStorage storage.RecordStorage, logger *slog.Logger) *Extractor {
	return &Extractor{
		storage: recordStorage,
		logger:  logger,
	}
}

// GetAllPending returns all records awaiting delivery.
// Чтение без побочных эффектов. Ошибка хранилища деградирует до
// пустого набора: sync engine не должен падать из-за недоступного
// хранилища, запись об ошибке остается в логе.
func (e *Extractor) GetAllPending(ctx context.Context) []*models.Record {
	records, err := e.storage.GetAll(ctx)
	if err != nil {
		e.logger.Warn("Failed to read records, treating as nothing pending", "error", err)
		return nil
	}

	pendingOnly := make([]*models.Record, 0, len(records))
	for _, record := range records {
		if record.Pending() {
			pendingOnly = append(pendingOnly, record)
		}
	}

	return pendingOnly
}
