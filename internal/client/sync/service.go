package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpClient "github.com/iudanet/sciencesync/internal/client/api"
	"github.com/iudanet/sciencesync/internal/client/bus"
	"github.com/iudanet/sciencesync/internal/client/pending"
	"github.com/iudanet/sciencesync/internal/client/storage"
	"github.com/iudanet/sciencesync/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс для sync.Service
type Service interface {
	// Run выполняет один полный проход по pending-набору
	Run(ctx context.Context) (*Result, error)

	// GetPendingCount возвращает количество записей, ожидающих доставки
	GetPendingCount(ctx context.Context) int
}

// service drains the pending set against the acceptance endpoint
type service struct {
	apiClient     httpClient.ClientAPI
	recordStorage storage.RecordStorage
	extractor     *pending.Extractor
	bus           *bus.Bus
	logger        *slog.Logger
}

// NewService creates a new sync engine
func NewService(apiClient httpClient.ClientAPI, recordStorage storage.RecordStorage, extractor *pending.Extractor, eventBus *bus.Bus, logger *slog.Logger) Service {
	return &service{
		apiClient:     apiClient,
		recordStorage: recordStorage,
		extractor:     extractor,
		bus:           eventBus,
		logger:        logger,
	}
}

// Failure describes one record the run could not deliver
type Failure struct {
	RecordID string `json:"record_id"` // ID недоставленной записи
	Name     string `json:"name"`      // имя из записи, для сообщений UI
	Detail   string `json:"detail"`    // статус сервера или транспортная ошибка
}

// Result contains aggregate counts of one sync run
type Result struct {
	Failures     []Failure `json:"failures"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
}

// Run drains the pending set sequentially.
// 1. Empty pending set returns zero counts without any network call
// 2. Each record is posted on its own; a confirmed acceptance deletes
//    the record locally and broadcasts record-synced
// 3. A rejected or undeliverable record stays queued for the next run
// 4. One sync-completed event closes the pass
//
// Записи обрабатываются строго последовательно: это снижает нагрузку
// на сервер и изолирует ошибки по одной записи без общих счетчиков.
func (s *service) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	pendingRecords := s.extractor.GetAllPending(ctx)
	if len(pendingRecords) == 0 {
		s.logger.Debug("Nothing pending, skipping sync run")
		return result, nil
	}

	s.logger.Info("Starting sync run", "pending", len(pendingRecords))

	for _, record := range pendingRecords {
		// Отмена контекста - ошибка вне области одной записи:
		// сообщаем sync-error и возвращаем ошибку планировщику,
		// чтобы попытка считалась неудавшейся
		if err := ctx.Err(); err != nil {
			s.bus.Broadcast(bus.EventSyncError, err.Error())
			return nil, fmt.Errorf("sync run interrupted: %w", err)
		}

		req := api.SubmitRequest{Name: record.Name, Role: record.Role}

		if _, err := s.apiClient.Submit(ctx, req); err != nil {
			// Отказ сервера и транспортный сбой обрабатываются
			// одинаково: запись остается в очереди до следующего
			// запуска
			s.logger.Warn("Failed to deliver record",
				"record_id", record.ID,
				"error", err)
			result.Failures = append(result.Failures, Failure{
				RecordID: record.ID,
				Name:     record.Name,
				Detail:   err.Error(),
			})
			result.FailureCount++
			continue
		}

		if err := s.recordStorage.Delete(ctx, record.ID); err != nil {
			if errors.Is(err, storage.ErrRecordNotFound) {
				// Параллельный запуск уже удалил запись - доставка
				// подтверждена один раз, уведомление не дублируем
				s.logger.Debug("Record already reconciled by concurrent run", "record_id", record.ID)
				result.SuccessCount++
				continue
			}
			s.logger.Warn("Delivered but failed to delete locally",
				"record_id", record.ID,
				"error", err)
			result.Failures = append(result.Failures, Failure{
				RecordID: record.ID,
				Name:     record.Name,
				Detail:   err.Error(),
			})
			result.FailureCount++
			continue
		}

		result.SuccessCount++
		s.bus.Broadcast(bus.EventRecordSynced, record)
	}

	s.logger.Info("Sync run completed",
		"success", result.SuccessCount,
		"failed", result.FailureCount)

	s.bus.Broadcast(bus.EventSyncCompleted, result)

	return result, nil
}

// GetPendingCount возвращает количество записей, ожидающих доставки
func (s *service) GetPendingCount(ctx context.Context) int {
	return len(s.extractor.GetAllPending(ctx))
}
