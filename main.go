package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"VisitBot/bot"
	"VisitBot/bot/chat"
	"VisitBot/bot/chat/visit"
	waMessenger "VisitBot/bot/chat/whatsapp"
	"VisitBot/bot/whatsapp"
	"VisitBot/impl/core"
	"VisitBot/internal/config"
	repository "VisitBot/internal/database"
	"VisitBot/internal/http-server/api"
	"VisitBot/internal/lib/logger"
	"VisitBot/internal/lib/sl"
	"VisitBot/internal/service/reminder"
	"VisitBot/internal/ws"
)

const (
	backendMemory = "memory"
	backendRedis  = "redis"
	backendMongo  = "mongo"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelWarn)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting visitbot", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	loc, err := conf.Location()
	if err != nil {
		lg.Error("timezone", sl.Err(err))
		return
	}

	db := repository.NewMongoClient(conf, lg)
	if err = db.Ping(ctx); err != nil {
		lg.Error("mongo ping", sl.Err(err))
		return
	}
	if err = db.EnsureIndexes(ctx); err != nil {
		lg.Error("mongo indexes", sl.Err(err))
		return
	}
	lg.With(
		slog.String("host", conf.Mongo.Host),
		slog.String("port", conf.Mongo.Port),
		slog.String("user", conf.Mongo.User),
		slog.String("database", conf.Mongo.Database),
	).Info("mongo client initialized")

	var store chat.SessionStore
	switch conf.Session.Backend {
	case backendRedis:
		redisStore, err := chat.NewRedisSessionStore(ctx, conf.Redis.URL, conf.Session.TTL)
		if err != nil {
			lg.Error("redis session store", sl.Secret("url", conf.Redis.URL), sl.Err(err))
			return
		}
		defer func() { _ = redisStore.Close() }()
		store = redisStore
	case backendMongo:
		store = chat.NewMongoSessionStore(db)
	default:
		store = chat.NewMemorySessionStore(conf.Session.TTL)
	}
	lg.Info("session store", slog.String("backend", conf.Session.Backend))

	waBot := whatsapp.NewWhatsAppBot(
		conf.WhatsApp.BaseURL,
		conf.WhatsApp.Token,
		conf.WhatsApp.DeviceID,
		conf.WhatsApp.WebhookSecret,
		lg,
	)
	messenger := waMessenger.NewMessenger(waBot)

	hub := ws.NewHub(lg)

	router := chat.NewRouter(conf.Message.Prefix, lg)
	engine := chat.NewEngine(store, router, chat.NewStepRegistry(), db, lg)
	engine.SetListener(hub)

	_, err = visit.Register(visit.Deps{
		Engine:         engine,
		Bills:          db,
		Users:          db,
		Visits:         db,
		Prefix:         conf.Message.Prefix,
		MinAppointment: conf.Message.MinAppointment,
		Location:       loc,
		Log:            lg,
	})
	if err != nil {
		lg.Error("register visit workflow", sl.Err(err))
		return
	}

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetEngine(engine)
	handler.SetMessenger(messenger)
	handler.SetRepository(db)
	waBot.SetMessageHandler(handler)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gCtx)
	})

	if conf.Reminder.Enabled {
		hour, minute, err := conf.ReminderClock()
		if err != nil {
			lg.Error("reminder clock", sl.Err(err))
			return
		}
		scheduler := reminder.NewScheduler(db, messenger, loc, hour, minute, lg)
		g.Go(func() error {
			return scheduler.Run(gCtx)
		})
	}

	if tgBot != nil {
		tgBot.SetSessionAdmin(handler)
		g.Go(func() error {
			if err := tgBot.Start(gCtx); err != nil {
				lg.Error("telegram bot error", sl.Err(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		return api.New(gCtx, conf, lg, handler, waBot, hub)
	})

	if err = g.Wait(); err != nil {
		lg.Error("service stopped", sl.Err(err))
		return
	}
	lg.Info("service stopped")
}
