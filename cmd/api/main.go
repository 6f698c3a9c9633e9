package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todoBoard/internal/app"
	"todoBoard/internal/config"
	"todoBoard/internal/logger"

	flag "github.com/spf13/pflag"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to config.yml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "todo-board:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg).Init(ctx)
	if err != nil {
		return err
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("App: stopped with error", err)
		return err
	}
	return nil
}
