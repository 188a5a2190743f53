// Command dbscript applies a SQL script to the configured tracker store.
//
//	dbscript [-config path/to/config.yaml] script.sql
//
// The statements run in one transaction; on failure nothing is applied.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/team16/easytracker/internal/tracker/auth"
	"github.com/team16/easytracker/internal/tracker/config"
	"github.com/team16/easytracker/internal/tracker/controller"
	"github.com/team16/easytracker/internal/tracker/db"
	"github.com/team16/easytracker/internal/tracker/events"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "config file (default $"+config.PathEnv+" or "+config.DefaultPath+")")
	timeout := flag.Duration("timeout", 5*time.Minute, "maximum time the script may run")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dbscript [-config file] script.sql")
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(*configPath, flag.Arg(0), *timeout, logger); err != nil {
		color.Red("script failed: %v", err)
		logger.Fatal("script failed", zap.Error(err))
	}
}

func run(configPath, scriptPath string, timeout time.Duration, logger *zap.Logger) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repo, err := db.NewRepositoryWithRetry(cfg.Database(), logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	script, err := os.Open(scriptPath)
	if err != nil {
		return err
	}
	defer script.Close()

	svc := controller.NewTrackerService(repo, events.NopProducer{}, auth.PlainHasher{}, 0, logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := svc.ExecuteScript(ctx, script)
	if err != nil {
		return err
	}
	color.Green("%d statements applied", n)
	return nil
}
