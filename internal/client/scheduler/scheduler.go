package scheduler

import (
	"context"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/sethvargo/go-retry"

	httpClient "github.com/iudanet/sciencesync/internal/client/api"
	"github.com/iudanet/sciencesync/internal/client/sync"
)

//go:generate moq -out trigger_mock.go . Trigger

// Trigger registers intent to run the sync engine once connectivity
// is available. Duplicate registrations with the same tag coalesce.
type Trigger interface {
	ScheduleSync(tag string)
}

// Config holds scheduler configuration
type Config struct {
	PollInterval  time.Duration // как часто проверять отложенные интенты
	ProbeDelay    time.Duration // базовая задержка между probe попытками
	ProbeMaxDelay time.Duration // потолок экспоненциальной задержки
	ProbeAttempts uint64        // сколько probe попыток за один цикл
}

// DefaultConfig returns sensible defaults for background operation
func DefaultConfig() Config {
	return Config{
		PollInterval:  30 * time.Second,
		ProbeDelay:    500 * time.Millisecond,
		ProbeMaxDelay: 15 * time.Second,
		ProbeAttempts: 6,
	}
}

// Scheduler runs the sync engine after connectivity returns.
// Точность срабатывания не гарантируется: scheduler лишь хранит
// зарегистрированные интенты и вызывает sync engine когда probe
// подтвердил доступность сервера.
type Scheduler struct {
	engine    sync.Service
	apiClient httpClient.ClientAPI
	logger    *slog.Logger
	config    Config

	tags      map[string]struct{}
	kick      chan struct{}
	stopCh    chan struct{}
	wg        gosync.WaitGroup
	mu        gosync.Mutex
	isRunning bool
}

// New creates a new deferred-sync scheduler
func New(engine sync.Service, apiClient httpClient.ClientAPI, config Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		engine:    engine,
		apiClient: apiClient,
		logger:    logger,
		config:    config,
		tags:      make(map[string]struct{}),
		kick:      make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// ScheduleSync registers a deferred-sync intent.
// Повторная регистрация того же tag до срабатывания склеивается в одну.
func (s *Scheduler) ScheduleSync(tag string) {
	s.mu.Lock()
	_, exists := s.tags[tag]
	if !exists {
		s.tags[tag] = struct{}{}
	}
	s.mu.Unlock()

	if exists {
		s.logger.Debug("Sync intent already registered", "tag", tag)
		return
	}

	s.logger.Info("Registered deferred-sync intent", "tag", tag)

	// Будим цикл без блокировки
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Start launches the background loop
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Deferred-sync scheduler started")
}

// Stop stops the background loop gracefully
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	s.logger.Info("Deferred-sync scheduler stopped")
}

// loop ждет интенты и запускает sync когда сервер доступен
func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-s.kick:
		case <-ticker.C:
		}

		if !s.hasPendingIntent() {
			continue
		}

		if err := s.fire(ctx); err != nil {
			// Интент остается зарегистрированным, следующий цикл
			// попробует снова
			s.logger.Warn("Deferred sync attempt failed, keeping intent", "error", err)
		}
	}
}

// hasPendingIntent reports whether any intent is registered
func (s *Scheduler) hasPendingIntent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tags) > 0
}

// fire waits for connectivity, then runs one sync pass.
// Интенты, зарегистрированные до запуска, снимаются только после
// успешного прохода; добавленные во время прохода остаются.
func (s *Scheduler) fire(ctx context.Context) error {
	serviced := s.snapshotTags()

	if err := s.waitOnline(ctx); err != nil {
		return err
	}

	if _, err := s.engine.Run(ctx); err != nil {
		return err
	}

	s.clearTags(serviced)
	return nil
}

// waitOnline probes the endpoint with exponential backoff until it
// answers or the attempt budget for this cycle is spent
func (s *Scheduler) waitOnline(ctx context.Context) error {
	backoff := retry.NewExponential(s.config.ProbeDelay)
	backoff = retry.WithCappedDuration(s.config.ProbeMaxDelay, backoff)
	backoff = retry.WithMaxRetries(s.config.ProbeAttempts, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.apiClient.Ping(ctx); err != nil {
			s.logger.Debug("Endpoint not reachable yet", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *Scheduler) snapshotTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := make([]string, 0, len(s.tags))
	for tag := range s.tags {
		tags = append(tags, tag)
	}
	return tags
}

func (s *Scheduler) clearTags(tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range tags {
		delete(s.tags, tag)
	}
}
