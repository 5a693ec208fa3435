package main // Entry point package

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/movie-rental/internal/cli"
	"github.com/iliyamo/movie-rental/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := config.Load() // .env + environment; flags are applied by the CLI
	code := cli.New(cfg, os.Stdout, os.Stderr).Run(ctx, os.Args[1:])

	stop()
	os.Exit(code) // the connection is already closed here
}
