package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkin/bot"
	"checkin/impl/auth"
	"checkin/impl/core"
	"checkin/internal/config"
	"checkin/internal/http-server/api"
	"checkin/internal/qr"
	"checkin/internal/scanner"
	"checkin/internal/storage"
	"checkin/internal/store"
	"checkin/internal/validation"
	"checkin/lib/logger"
	"checkin/lib/sl"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, *logPath)
	log.Info("starting checkin", slog.String("config", *configPath), slog.String("env", conf.Env))

	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.ApiKey, conf.Telegram.AdminIds, log)
		if err != nil {
			log.Error("telegram bot", sl.Err(err))
		} else {
			log = slog.New(logger.NewTelegramHandler(log.Handler(), tgBot, logger.ParseLevel(conf.Telegram.LogLevel)))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots, err := storage.New(conf)
	if err != nil {
		log.Error("storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = snapshots.Close()
	}()
	log.With(slog.String("driver", conf.Storage.Driver)).Info("storage opened")

	records := store.New(snapshots, log)
	records.Load(ctx)

	handler := core.New(records, log)
	handler.SetAuthService(auth.New(conf.Auth.Username, conf.Auth.Password))
	handler.SetRenderer(qr.NewRenderer(conf.QR.Size))
	handler.SetDecoder(qr.NewDecoder())

	if tgBot != nil {
		tgBot.SetCore(handler)
		handler.SetNotifier(tgBot)
		go func() {
			if err := tgBot.Start(); err != nil {
				log.Error("telegram bot", sl.Err(err))
			}
		}()
		defer tgBot.Stop()
	}

	if conf.Scanner.Device != "" {
		feed := scanner.NewFeed(scanner.ValidatorFunc(handler.ValidateResult), log)
		go func() {
			err := feed.Run(ctx, scanner.NewDeviceSource(conf.Scanner.Device), func(result validation.Result) {
				log.With(
					slog.String("type", string(result.Severity())),
				).Info(result.Message())
			})
			if errors.Is(err, scanner.ErrUnavailable) {
				log.Warn("live scanning disabled", sl.Err(err))
			}
		}()
	}

	server, err := api.New(conf, log, handler)
	if err != nil {
		log.Error("api server", sl.Err(err))
		os.Exit(1)
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown", sl.Err(err))
		}
	}()

	if err = server.Start(); err != nil {
		log.Error("server stopped", sl.Err(err))
	}
	log.Info("checkin stopped")
}
