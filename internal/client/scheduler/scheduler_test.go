package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/sciencesync/internal/client/api"
	"github.com/iudanet/sciencesync/internal/client/sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// fastConfig ускоряет цикл планировщика для тестов
func fastConfig() Config {
	return Config{
		PollInterval:  10 * time.Millisecond,
		ProbeDelay:    time.Millisecond,
		ProbeMaxDelay: 5 * time.Millisecond,
		ProbeAttempts: 2,
	}
}

func TestScheduleSync_CoalescesDuplicateTags(t *testing.T) {
	engine := &sync.ServiceMock{}
	apiMock := &httpClient.ClientAPIMock{}

	s := New(engine, apiMock, fastConfig(), testLogger())

	// Цикл не запущен: интенты только копятся
	s.ScheduleSync("sync-science")
	s.ScheduleSync("sync-science")
	s.ScheduleSync("sync-science")

	assert.Len(t, s.snapshotTags(), 1)

	s.ScheduleSync("other-tag")
	assert.Len(t, s.snapshotTags(), 2)
}

func TestScheduler_FiresWhenOnline(t *testing.T) {
	runCh := make(chan struct{}, 1)

	engine := &sync.ServiceMock{
		RunFunc: func(ctx context.Context) (*sync.Result, error) {
			select {
			case runCh <- struct{}{}:
			default:
			}
			return &sync.Result{SuccessCount: 1}, nil
		},
	}
	apiMock := &httpClient.ClientAPIMock{
		PingFunc: func(ctx context.Context) error {
			return nil
		},
	}

	s := New(engine, apiMock, fastConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop()

	s.ScheduleSync("sync-science")

	select {
	case <-runCh:
	case <-time.After(2 * time.Second):
		t.Fatal("engine was not invoked after intent registration")
	}

	// Успешный проход снимает интент
	require.Eventually(t, func() bool {
		return len(s.snapshotTags()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_KeepsIntentWhileOffline(t *testing.T) {
	engine := &sync.ServiceMock{
		RunFunc: func(ctx context.Context) (*sync.Result, error) {
			t.Error("engine must not run while the endpoint is unreachable")
			return nil, nil
		},
	}
	apiMock := &httpClient.ClientAPIMock{
		PingFunc: func(ctx context.Context) error {
			return errors.New("no route to host")
		},
	}

	s := New(engine, apiMock, fastConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop()

	s.ScheduleSync("sync-science")

	// Даем планировщику несколько циклов: интент должен пережить их
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, s.snapshotTags(), 1)
	assert.NotEmpty(t, apiMock.PingCalls())
}

func TestScheduler_RetriesAfterFailedRun(t *testing.T) {
	var runs int
	runCh := make(chan int, 8)

	engine := &sync.ServiceMock{
		RunFunc: func(ctx context.Context) (*sync.Result, error) {
			runs++
			runCh <- runs
			if runs == 1 {
				return nil, errors.New("sync interrupted")
			}
			return &sync.Result{}, nil
		},
	}
	apiMock := &httpClient.ClientAPIMock{
		PingFunc: func(ctx context.Context) error {
			return nil
		},
	}

	s := New(engine, apiMock, fastConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop()

	s.ScheduleSync("sync-science")

	// Первый запуск падает, интент остается, следующий цикл
	// запускает engine снова
	deadline := time.After(2 * time.Second)
	for seen := 0; seen < 2; {
		select {
		case <-runCh:
			seen++
		case <-deadline:
			t.Fatal("engine was not re-invoked after a failed run")
		}
	}

	require.Eventually(t, func() bool {
		return len(s.snapshotTags()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_StartStopIdempotent(t *testing.T) {
	engine := &sync.ServiceMock{}
	apiMock := &httpClient.ClientAPIMock{}

	s := New(engine, apiMock, fastConfig(), testLogger())

	ctx := context.Background()
	s.Start(ctx)
	s.Start(ctx) // повторный Start - no-op

	s.Stop()
	s.Stop() // повторный Stop - no-op
}
