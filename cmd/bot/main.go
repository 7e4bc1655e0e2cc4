package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/app"
	"github.com/Spok95/vocab-scale/internal/bot"
	"github.com/Spok95/vocab-scale/internal/config"
	"github.com/Spok95/vocab-scale/internal/jobs"
	"github.com/Spok95/vocab-scale/internal/logging"
	"github.com/Spok95/vocab-scale/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.RequireBot(); err != nil {
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
	if cfg.ExportInterval > 0 {
		jobs.New(ctx, lg.Base).Every(cfg.ExportInterval, "export_sorts", jobs.ExportSorts(svc.Grades, cfg.ExportDir))
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		lg.Base.Fatal("telegram bot init", zap.Error(err))
	}
	api.Debug = cfg.Env != "prod"
	lg.Base.Info("bot started", zap.String("username", api.Self.UserName))

	b := bot.New(api, bot.Deps{Auth: svc.Auth, Quiz: svc.Quiz, Grades: svc.Grades, Log: lg.Base})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	app.NewDispatcher(b, lg.Base).Run(ctx, updates)
	lg.Base.Info("bot stopped")
}
