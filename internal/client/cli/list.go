package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/sciencesync/internal/client/pending"
	"github.com/iudanet/sciencesync/internal/client/storage"
)

// RunList выводит все записи локальной очереди
func RunList(ctx context.Context, recordStorage storage.RecordStorage) error {
	records, err := recordStorage.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	fmt.Println("=== Queued Records ===")
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("The local queue is empty.")
		return nil
	}

	for _, record := range records {
		state := "pending"
		if record.Synced {
			state = "synced"
		}
		fmt.Printf("%s  %-20s %-12s %s  [%s]\n",
			record.ID, record.Name, record.Role, record.Timestamp, state)
	}

	fmt.Println()
	fmt.Printf("Total: %d record(s)\n", len(records))

	return nil
}

// RunPending выводит только записи, ожидающие доставки
func RunPending(ctx context.Context, extractor *pending.Extractor) error {
	records := extractor.GetAllPending(ctx)

	fmt.Println("=== Pending Records ===")
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("Nothing pending, everything is delivered.")
		return nil
	}

	for _, record := range records {
		fmt.Printf("%s  %-20s %-12s %s\n",
			record.ID, record.Name, record.Role, record.Timestamp)
	}

	fmt.Println()
	fmt.Printf("Pending: %d record(s)\n", len(records))

	return nil
}
