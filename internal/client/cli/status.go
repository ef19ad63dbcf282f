package cli

import (
	"context"
	"fmt"

	httpClient "github.com/iudanet/sciencesync/internal/client/api"
	"github.com/iudanet/sciencesync/internal/client/sync"
)

// RunStatus показывает состояние очереди и доступность сервера
func RunStatus(ctx context.Context, apiClient httpClient.ClientAPI, syncService sync.Service) error {
	fmt.Println("=== Status ===")
	fmt.Println()

	pendingCount := syncService.GetPendingCount(ctx)
	fmt.Printf("Pending records: %d\n", pendingCount)

	if err := apiClient.Ping(ctx); err != nil {
		fmt.Println("Server:          unreachable (offline)")
	} else {
		fmt.Println("Server:          reachable")
	}

	if pendingCount > 0 {
		fmt.Println()
		fmt.Println("Run 'sciencesync sync' to drain the queue now,")
		fmt.Println("or 'sciencesync daemon' to sync when connectivity returns.")
	}

	return nil
}
