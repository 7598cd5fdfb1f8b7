package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/studycompanion/internal/buildinfo"
	"github.com/dmitrijs2005/studycompanion/internal/client/bootstrap"
	"github.com/dmitrijs2005/studycompanion/internal/client/cli"
	"github.com/dmitrijs2005/studycompanion/internal/client/config"
	"github.com/dmitrijs2005/studycompanion/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	deps, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error(ctx, "close storage", "error", err)
		}
	}()

	app := cli.NewApp(cfg, deps.Sessions, deps.Endpoint, deps.API, logger)
	app.Run(ctx)

}
