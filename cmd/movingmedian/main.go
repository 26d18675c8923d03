package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
		level.Error(logger).Log("msg", "movingmedian failed", "err", err)
		os.Exit(1)
	}
}
