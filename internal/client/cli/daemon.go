package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iudanet/sciencesync/internal/client/bus"
	"github.com/iudanet/sciencesync/internal/client/scheduler"
	"github.com/iudanet/sciencesync/internal/client/submit"
	"github.com/iudanet/sciencesync/internal/client/sync"
)

// RunDaemon запускает планировщик отложенной синхронизации в
// foreground и печатает события шины до отмены контекста.
// Это фоновая задача, работающая без открытой "страницы": очередь
// дренируется как только сервер снова доступен.
func RunDaemon(ctx context.Context, sched *scheduler.Scheduler, eventBus *bus.Bus, syncService sync.Service) error {
	fmt.Println("=== Deferred-Sync Daemon ===")
	fmt.Println("Press Ctrl+C to stop.")
	fmt.Println()

	events, unsubscribe := eventBus.Subscribe()
	defer unsubscribe()

	sched.Start(ctx)
	defer sched.Stop()

	// Если к моменту старта очередь не пуста, регистрируем интент
	// сразу: заявки могли остаться с прошлого запуска
	if count := syncService.GetPendingCount(ctx); count > 0 {
		fmt.Printf("Found %d pending record(s) from a previous session\n", count)
		sched.ScheduleSync(submit.SyncTag)
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			fmt.Println("Daemon stopped.")
			return nil
		case msg := <-events:
			printEvent(msg)
		}
	}
}

// printEvent печатает одно событие шины в человеко-читаемом виде
func printEvent(msg bus.Message) {
	switch msg.Type {
	case bus.EventRecordSavedOffline:
		fmt.Println("● record saved offline")
	case bus.EventRecordSynced:
		fmt.Println("✓ record synced")
	case bus.EventSyncCompleted:
		if result, ok := msg.Payload.(*sync.Result); ok {
			fmt.Printf("✓ sync completed: %d delivered, %d failed\n",
				result.SuccessCount, result.FailureCount)
			return
		}
		fmt.Println("✓ sync completed")
	case bus.EventSyncError:
		fmt.Printf("✗ sync error: %v\n", msg.Payload)
	default:
		// Неизвестный тип события - печатаем как есть
		data, _ := json.Marshal(msg)
		fmt.Println(string(data))
	}
}
