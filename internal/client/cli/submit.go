package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/iudanet/sciencesync/internal/client/submit"
)

// RunSubmit отправляет одну заявку через submission interceptor.
// При недоступном сервере заявка durably ставится в очередь и
// команда все равно завершается успешно.
func RunSubmit(ctx context.Context, args []string, submitService *submit.Service) error {
	flags := flag.NewFlagSet("submit", flag.ContinueOnError)
	name := flags.String("name", "", "Participant name (required)")
	role := flags.String("role", "", "Participant role, e.g. Chimie, Robotique, Électricité (required)")

	if err := flags.Parse(args); err != nil {
		return err
	}

	resp, err := submitService.Submit(ctx, *name, *role)
	if err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}

	if resp.Offline {
		fmt.Println("✓ Saved offline, will sync when the server is reachable")
	} else {
		fmt.Printf("✓ Accepted by server: %s\n", resp.Message)
	}

	return nil
}
