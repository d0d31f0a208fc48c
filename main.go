// simplechat - a line-oriented chat client with optional SSH tunneling
// and Redis transcripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"simplechat/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "simplechat: %v\n", err)
		os.Exit(1)
	}
}
