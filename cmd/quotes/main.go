// cmd/quotes/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/quotes/internal/cli"
)

func main() {
	// Cancel the run on interrupt so an in-flight request is abandoned
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
