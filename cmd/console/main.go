package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/app"
	"github.com/Spok95/vocab-scale/internal/config"
	"github.com/Spok95/vocab-scale/internal/console"
	"github.com/Spok95/vocab-scale/internal/logging"
	"github.com/Spok95/vocab-scale/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		lg.Base.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.Bootstrap(ctx, cfg, lg.Base)
	if err != nil {
		observability.CaptureErr(err)
		lg.Base.Fatal("storage unavailable", zap.Error(err))
	}
	defer svc.Close()

	if cfg.HTTPAddr != "" {
		app.StartHTTP(ctx, cfg.HTTPAddr, svc.Store, lg.Base)
	}

	c := console.New(console.Deps{
		Auth:      svc.Auth,
		Bank:      svc.Bank,
		Quiz:      svc.Quiz,
		Grades:    svc.Grades,
		ExportDir: cfg.ExportDir,
		Log:       lg.Base,
	}, os.Stdin, os.Stdout)
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		lg.Base.Error("console stopped", zap.Error(err))
	}
}
