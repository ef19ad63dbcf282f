package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/sciencesync/internal/client/sync"
)

// RunSync выполняет один проход синхронизации немедленно
func RunSync(ctx context.Context, syncService sync.Service) error {
	fmt.Println("=== Synchronization ===")
	fmt.Println()
	fmt.Println("Draining the pending set...")

	result, err := syncService.Run(ctx)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	fmt.Println()
	if result.SuccessCount == 0 && result.FailureCount == 0 {
		fmt.Println("Nothing to sync.")
		return nil
	}

	fmt.Println("✓ Sync pass completed")
	fmt.Println()
	fmt.Printf("Delivered: %d record(s)\n", result.SuccessCount)
	if result.FailureCount > 0 {
		fmt.Printf("Failed:    %d record(s), kept queued for the next run\n", result.FailureCount)
		for _, failure := range result.Failures {
			fmt.Printf("  - %s (%s): %s\n", failure.Name, failure.RecordID, failure.Detail)
		}
	}

	return nil
}
