package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/noah-isme/educonnect/internal/cli"
	"github.com/noah-isme/educonnect/pkg/config"
	"github.com/noah-isme/educonnect/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, cli.Deps{Logger: logr})
	if err := cli.Execute(ctx, app, os.Args[1:]); err != nil {
		cli.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
