package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/miradorstack/battery-health/cmd/battery-report/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
