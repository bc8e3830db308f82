// Package main is the entry point for the storagelab CLI.
//
// storagelab walks through the storage services of a cloud lab account:
// it launches and retires an instance, attaches a block volume, creates a
// shared file system, seeds an object bucket with a generated dataset and
// queries that dataset in place. Every remote operation that completes
// asynchronously is followed by a bounded wait.
//
// For detailed usage information, run:
//
//	storagelab --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/storagelab/cmd/storagelab/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signalContext()
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled by the first interrupt or SIGTERM, which lets
// running waits end as cancelled and stop what they started. Once it fires,
// the default handlers are restored so a second interrupt exits at once.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}
