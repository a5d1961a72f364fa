// Package main is the dbforge command line entry point.
package main

import (
	"context"
	"os"
	"os/signal"

	"dbforge/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
