package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/taskboard/internal/buildinfo"
	"github.com/dmitrijs2005/taskboard/internal/client/cli"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/store"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	rm, err := repomanager.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer func() {
		if err := rm.Close(); err != nil {
			log.Printf("closing storage: %v", err)
		}
	}()

	st := store.New(rm.Repository(), store.WithLogger(logger))
	app := cli.NewApp(st, os.Stdin, os.Stdout, logger)

	app.Run(ctx)

}
