package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/sciencesync/internal/client/api"
	"github.com/iudanet/sciencesync/internal/client/bus"
	"github.com/iudanet/sciencesync/internal/client/cli"
	"github.com/iudanet/sciencesync/internal/client/pending"
	"github.com/iudanet/sciencesync/internal/client/scheduler"
	"github.com/iudanet/sciencesync/internal/client/storage/boltdb"
	"github.com/iudanet/sciencesync/internal/client/submit"
	syncService "github.com/iudanet/sciencesync/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги. Endpoint задается явно конфигурацией,
	// никакого выбора по текущему origin.
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", envOrDefault("SCIENCESYNC_SERVER", "http://localhost:8080"), "Acceptance endpoint base URL")
	dbPath := flag.String("db", envOrDefault("SCIENCESYNC_DB", "sciencesync-client.db"), "Path to local queue database")
	timeout := flag.Duration("timeout", api.DefaultTimeout, "Per-request timeout")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	command := args[0]

	// Контекст завершается по Ctrl+C, что важно для daemon
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// Собираем сервисы
	apiClient := api.NewClient(*serverURL, *timeout)
	eventBus := bus.New(logger)
	extractor := pending.NewExtractor(boltStorage, logger)
	engine := syncService.NewService(apiClient, boltStorage, extractor, eventBus, logger)
	sched := scheduler.New(engine, apiClient, scheduler.DefaultConfig(), logger)
	submitService := submit.NewService(apiClient, boltStorage, sched, eventBus, logger)

	// Interceptor регистрирует интент, но вне daemon цикл
	// планировщика не крутится; очередь дренирует следующий запуск
	// daemon или явный sync
	sched.Start(ctx)
	defer sched.Stop()

	// Выполняем команду
	switch command {
	case "submit":
		if err := cli.RunSubmit(ctx, args[1:], submitService); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "list":
		if err := cli.RunList(ctx, boltStorage); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "pending":
		if err := cli.RunPending(ctx, extractor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sync":
		if err := cli.RunSync(ctx, engine); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "daemon":
		if err := cli.RunDaemon(ctx, sched, eventBus, engine); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "status":
		if err := cli.RunStatus(ctx, apiClient, engine); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		cli.PrintUsage()
		os.Exit(1)
	}
}

// envOrDefault возвращает значение переменной окружения или default
func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func printVersion() {
	fmt.Printf("ScienceSync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
