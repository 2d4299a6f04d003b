package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/justyntemme/sidetree/internal/cli"
)

func main() {
	// Interrupts cancel running batches between items
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
