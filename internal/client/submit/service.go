package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	httpClient "github.com/iudanet/sciencesync/internal/client/api"
	"github.com/iudanet/sciencesync/internal/client/bus"
	"github.com/iudanet/sciencesync/internal/client/scheduler"
	"github.com/iudanet/sciencesync/internal/client/storage"
	"github.com/iudanet/sciencesync/internal/models"
	"github.com/iudanet/sciencesync/pkg/api"
)

// SyncTag идентифицирует отложенный sync-интент этого сервиса.
// Повторные регистрации с тем же tag склеиваются планировщиком.
const SyncTag = "sync-science"

// Common submission errors
var (
	// ErrNameRequired indicates the name field is empty
	ErrNameRequired = errors.New("name is required")

	// ErrRoleRequired indicates the role field is empty
	ErrRoleRequired = errors.New("role is required")
)

// Service sits on the network boundary: it tries the real endpoint
// first and converts a failed delivery into a durably queued record,
// answering the caller as if the submission was accepted.
type Service struct {
	apiClient     httpClient.ClientAPI
	recordStorage storage.RecordStorage
	trigger       scheduler.Trigger
	bus           *bus.Bus
	logger        *slog.Logger
}

// NewService creates a new submission service
func NewService(apiClient httpClient.ClientAPI, recordStorage storage.RecordStorage, trigger scheduler.Trigger, eventBus *bus.Bus, logger *slog.Logger) *Service {
	return &Service{
		apiClient:     apiClient,
		recordStorage: recordStorage,
		trigger:       trigger,
		bus:           eventBus,
		logger:        logger,
	}
}

// Submit delivers a submission or queues it for later delivery.
// Политика:
//   - пустые поля и 4xx от сервера - ошибка ввода, НЕ ставится в
//     очередь (бесконечный retry никогда не даст успеха)
//   - 5xx и транспортный сбой - запись ставится в очередь,
//     регистрируется sync-интент, вызывающему синтезируется успешный
//     ответ с Offline=true
//   - отказ локального хранилища при постановке в очередь
//     пробрасывается: нельзя отчитаться об успехе, молча потеряв
//     данные пользователя
func (s *Service) Submit(ctx context.Context, name, role string) (*api.SubmitResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, ErrRoleRequired
	}

	req := api.SubmitRequest{Name: name, Role: role}

	resp, err := s.apiClient.Submit(ctx, req)
	if err == nil {
		// Принято сервером сразу, ответ проходит без изменений
		return resp, nil
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.IsClientError() {
		// Валидационный отказ сервера: очередь его не вылечит
		return nil, fmt.Errorf("submission rejected: %w", err)
	}

	s.logger.Info("Endpoint unreachable, queuing record for deferred sync", "error", err)

	record := models.NewRecord(name, role)
	if err := s.recordStorage.Put(ctx, record); err != nil {
		// Не смогли даже поставить в очередь - это провал отправки
		return nil, fmt.Errorf("failed to queue record: %w", err)
	}

	s.trigger.ScheduleSync(SyncTag)
	s.bus.Broadcast(bus.EventRecordSavedOffline, record)

	return &api.SubmitResponse{
		Message: "science queued for delivery",
		Offline: true,
	}, nil
}
