package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Fepozopo/rasterfx/pkg/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cli.RunCLI(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "rasterfx: %v\n", err)
		stop()
		os.Exit(1)
	}
}
