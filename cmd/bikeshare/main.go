package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bikeshare-platform/cmd/bikeshare/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.Execute(ctx)
}
