package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"arena/internal/app"
	"arena/internal/config"
	"arena/internal/logger"
	"arena/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", defaultConfigPath(), "path to the YAML config file")
	runOnce := flag.Bool("once", false, "run a single decision cycle and exit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLevel(cfg.App.LogLevel)
	logger.Infof("config loaded (env=%s symbols=%v policy=%s mode=%s)",
		cfg.App.Env, cfg.Market.Symbols, cfg.Trading.Policy, cfg.Trading.Mode)

	runner, err := app.New(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer runner.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.SyncTime(ctx); err != nil {
		logger.Warnf("server time sync failed, signed requests may be rejected: %v", err)
	}

	once := *runOnce || cfg.Scheduler.RunOnce
	if !once {
		go func() {
			logger.Infof("http listening on %s", runner.Server().Addr())
			if err := runner.Server().Start(ctx); err != nil {
				logger.Errorf("http server: %v", err)
				stop()
			}
		}()
	}

	sched := scheduler.New(time.Duration(cfg.Scheduler.IntervalSeconds)*time.Second, once)
	if err := sched.Run(ctx, runner.RunCycle); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("run: %v", err)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

// setupLogOutput mirrors log lines to a file alongside stdout when
// app.log_path is set.
func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	if dir := filepath.Dir(trimmed); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}
