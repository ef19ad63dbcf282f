package cli

import "fmt"

// PrintUsage выводит справку по командам клиента
func PrintUsage() {
	fmt.Println("Usage: sciencesync <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  submit -name <name> -role <role>   Submit a science record (queued if offline)")
	fmt.Println("  list                               List all locally queued records")
	fmt.Println("  pending                            List records awaiting delivery")
	fmt.Println("  sync                               Run one sync pass now")
	fmt.Println("  daemon                             Run the deferred-sync loop in the foreground")
	fmt.Println("  status                             Show queue and endpoint status")
	fmt.Println()
	fmt.Println("Global options:")
	fmt.Println("  -server <url>   Acceptance endpoint base URL")
	fmt.Println("  -db <path>      Path to the local queue database")
	fmt.Println("  -version        Show version information")
}
