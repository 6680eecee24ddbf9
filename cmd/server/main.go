package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"StockReturns/internal/cache"
	"StockReturns/internal/config"
	"StockReturns/internal/logging"
	"StockReturns/internal/model"
	"StockReturns/internal/provider"
	"StockReturns/internal/recorder"
	"StockReturns/internal/returns"
	"StockReturns/internal/scheduler"
	"StockReturns/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] .env not loaded: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("[FATAL] init logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("StockReturns starting", zap.String("config", cfgPath))

	// Init provider
	p, err := provider.New(provider.Options{
		Name:     cfg.DataSource.Provider,
		BaseURL:  cfg.DataSource.BaseURL,
		APIKey:   cfg.DataSource.APIKey,
		Proxy:    cfg.Proxy,
		Timeout:  cfg.DataSource.Timeout,
		Adjusted: cfg.DataSource.Adjusted,
	})
	if err != nil {
		logger.Fatal("init provider", zap.Error(err))
	}
	logger.Info("data source", zap.String("provider", p.Name()), zap.Int("workers", cfg.DataSource.Workers))
	p = provider.Limit(p, cfg.DataSource.Workers)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	svc := returns.NewService(p,
		cache.New[*model.ReturnRecord](cfg.Cache.Ticker.TTL, cfg.Cache.Ticker.MaxSize),
		cache.New[*model.BatchResult](cfg.Cache.Returns.TTL, cfg.Cache.Returns.MaxSize),
		rec, logger)
	svc.Symbols = cfg.Symbols
	svc.Workers = cfg.DataSource.Workers

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, svc, logger)
	if err := sched.RegisterAll(cfg.Schedule.WarmCron); err != nil {
		logger.Fatal("register cron tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Schedule.WarmOnStart {
		logger.Info("RUN_ON_START enabled, warming default window now")
		go sched.RunWarmNow()
	}

	srv := server.New(server.Options{
		Addr:           cfg.Server.Addr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, server.NewHandler(svc, logger), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("StockReturns stopped")
}
