package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"PixelTrader/internal/app"
	"PixelTrader/internal/collector"
	"PixelTrader/internal/config"
	"PixelTrader/internal/logging"
	"PixelTrader/internal/metrics"
	"PixelTrader/internal/notifier"
	"PixelTrader/internal/scheduler"
	"PixelTrader/internal/server"
	"PixelTrader/internal/store"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Fatal().Err(err).Msg("setup logging")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("config", cfgPath).Msg("PixelTrader starting")

	m := metrics.New()

	// Init data source
	var src collector.Source
	switch cfg.Source.Kind {
	case "yahoo":
		src = collector.NewYahooSource(cfg.Source.Proxy, cfg.Source.Timeout)
	case "demo":
		src = collector.NewDemoSource()
	default:
		src = collector.NewBackendClient(cfg.Source.BaseURL, cfg.Source.Proxy, cfg.Source.Timeout)
	}
	log.Info().Str("source", src.Name()).Msg("data source ready")
	src = collector.NewInstrumented(src, m)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init preference storage
	kv, err := store.Open(ctx, store.Options{
		Kind:          cfg.Storage.Kind,
		Path:          cfg.Storage.Path,
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Str("kind", cfg.Storage.Kind).Msg("init storage failed, using memory")
		kv = store.NewMemoryStore()
	}
	defer kv.Close()

	// Init Telegram notifier
	var sink notifier.Sink = notifier.Noop{}
	var tn *notifier.TelegramNotifier
	if cfg.Notify.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID, cfg.Source.Proxy)
		sink = tn
	}

	ctrl := app.NewController(ctx, app.Config{
		Source:  src,
		Prefs:   store.NewPrefs(kv, cfg.Defaults.Symbol),
		Sink:    sink,
		Metrics: m,
		Defaults: app.Defaults{
			Symbol:   cfg.Defaults.Symbol,
			Period:   cfg.Defaults.Period,
			Interval: cfg.Defaults.Interval,
			Options:  cfg.DisplayOptions(),
		},
		BannerTTL:    cfg.Notify.BannerTTL,
		NoticeTTL:    cfg.Notify.NoticeTTL,
		FetchTimeout: cfg.Source.Timeout,
	})
	ctrlDone := make(chan struct{})
	go func() {
		defer close(ctrlDone)
		_ = ctrl.Run(ctx)
	}()

	// Init scheduler
	sched := scheduler.NewScheduler(func() { ctrl.Dispatch(app.Refresh()) })
	if err := sched.Register(cfg.Refresh.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, ctrl.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(ctrl, m, server.Options{Addr: cfg.Server.Addr, CORSOrigins: cfg.Server.CORSOrigins})
	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()

	log.Info().Str("addr", cfg.Server.Addr).Msg("PixelTrader is running. Press Ctrl+C to stop.")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-srvErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	<-ctrlDone
	log.Info().Msg("PixelTrader stopped")
}
