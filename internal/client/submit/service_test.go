package submit

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/sciencesync/internal/client/api"
	"github.com/iudanet/sciencesync/internal/client/bus"
	"github.com/iudanet/sciencesync/internal/client/scheduler"
	"github.com/iudanet/sciencesync/internal/client/storage"
	"github.com/iudanet/sciencesync/internal/models"
	"github.com/iudanet/sciencesync/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

type fixture struct {
	service *Service
	apiMock *httpClient.ClientAPIMock
	store   *storage.RecordStorageMock
	trigger *scheduler.TriggerMock
	bus     *bus.Bus
	queued  *[]*models.Record
}

func newFixture(submitFunc func(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error)) *fixture {
	logger := testLogger()

	var queued []*models.Record
	storeMock := &storage.RecordStorageMock{
		PutFunc: func(ctx context.Context, record *models.Record) error {
			queued = append(queued, record)
			return nil
		},
	}

	apiMock := &httpClient.ClientAPIMock{SubmitFunc: submitFunc}
	triggerMock := &scheduler.TriggerMock{
		ScheduleSyncFunc: func(tag string) {},
	}
	eventBus := bus.New(logger)

	return &fixture{
		service: NewService(apiMock, storeMock, triggerMock, eventBus, logger),
		apiMock: apiMock,
		store:   storeMock,
		trigger: triggerMock,
		bus:     eventBus,
		queued:  &queued,
	}
}

func TestSubmit_OnlineSuccess_PassesThrough(t *testing.T) {
	f := newFixture(func(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error) {
		return &api.SubmitResponse{Message: "science received"}, nil
	})

	resp, err := f.service.Submit(context.Background(), "Ada", models.RoleChimie)
	require.NoError(t, err)

	assert.Equal(t, "science received", resp.Message)
	assert.False(t, resp.Offline)

	// Ничего не попало в очередь и интент не регистрировался
	assert.Empty(t, *f.queued)
	assert.Empty(t, f.trigger.ScheduleSyncCalls())
}

func TestSubmit_EmptyFields_NotQueued(t *testing.T) {
	f := newFixture(func(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error) {
		return &api.SubmitResponse{Message: "ok"}, nil
	})

	ctx := context.Background()

	_, err := f.service.Submit(ctx, "   ", models.RoleChimie)
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = f.service.Submit(ctx, "Ada", "")
	assert.ErrorIs(t, err, ErrRoleRequired)

	// Роль из одних пробелов - тоже пустая. Иначе запись навсегда
	// застрянет в очереди: сервер будет отвечать 400 на каждый sync
	_, err = f.service.Submit(ctx, "Ada", "   ")
	assert.ErrorIs(t, err, ErrRoleRequired)

	// Ошибка ввода не лечится очередью: сеть не трогаем
	assert.Empty(t, f.apiMock.SubmitCalls())
	assert.Empty(t, *f.queued)
}

func TestSubmit_ValidationRejection_NotQueued(t *testing.T) {
	f := newFixture(func(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error) {
		return nil, &api.StatusError{Code: 400, Body: "name is required"}
	})

	_, err := f.service.Submit(context.Background(), "Ada", models.RoleChimie)
	assert.Error(t, err)

	var statusErr *api.StatusError
	assert.ErrorAs(t, err, &statusErr)

	// 4xx - отказ валидации, бесконечный retry его не вылечит
	assert.Empty(t, *f.queued)
	assert.Empty(t, f.trigger.ScheduleSyncCalls())
}

func TestSubmit_TransportFailure_Queues(t *testing.T) {
	f := newFixture(func(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error) {
		return nil, errors.New("connection refused")
	})

	events, unsubscribe := f.bus.Subscribe()
	defer unsubscribe()

	resp, err := f.service.Submit(context.Background(), "Ada", models.RoleChimie)
	require.NoError(t, err)

	// Вызывающему синтезирован успешный ответ с явным offline флагом
	assert.True(t, resp.Offline)

	require.Len(t, *f.queued, 1)
	record := (*f.queued)[0]
	assert.Equal(t, "Ada", record.Name)
	assert.Equal(t, models.RoleChimie, record.Role)
	assert.False(t, record.Synced)
	assert.NotEmpty(t, record.ID)
	assert.NotEmpty(t, record.Timestamp)

	// Интент зарегистрирован с фиксированным tag
	calls := f.trigger.ScheduleSyncCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, SyncTag, calls[0].Tag)

	// Событие record-saved-offline ушло в шину
	msg := <-events
	assert.Equal(t, bus.EventRecordSavedOffline, msg.Type)
	assert.Equal(t, record, msg.Payload)
}

func TestSubmit_ServerError_Queues(t *testing.T) {
	f := newFixture(func(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error) {
		return nil, &api.StatusError{Code: 502, Body: "bad gateway"}
	})

	resp, err := f.service.Submit(context.Background(), "Ada", models.RoleChimie)
	require.NoError(t, err)

	assert.True(t, resp.Offline)
	assert.Len(t, *f.queued, 1)
}

func TestSubmit_QueueFailure_Propagates(t *testing.T) {
	f := newFixture(func(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error) {
		return nil, errors.New("connection refused")
	})
	f.store.PutFunc = func(ctx context.Context, record *models.Record) error {
		return errors.New("disk full")
	}

	// Нельзя отчитаться об успехе, если запись даже не легла в очередь
	resp, err := f.service.Submit(context.Background(), "Ada", models.RoleChimie)
	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "failed to queue record")

	assert.Empty(t, f.trigger.ScheduleSyncCalls())
}
