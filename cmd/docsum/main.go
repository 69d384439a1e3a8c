package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanqian/docsum/internal/interface/cli"
	"github.com/yanqian/docsum/pkg/logger"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand(cli.Deps{
		Version: version,
		Logger:  logger.NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL")),
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
