package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"go.uber.org/zap"

	"slipnorm/internal/config"
	"slipnorm/internal/export"
	"slipnorm/internal/normalizer"
	"slipnorm/internal/ocr"
	"slipnorm/internal/repository"
	"slipnorm/internal/server"
)

// LoadConfig loads the default configuration and overrides it with the
// config file specified by the --config flag, when the file exists.
func LoadConfig() *koanf.Koanf {
	configPath := kingpin.Flag("config", "Path to the application config file").Short('c').Default("config.yml").String()
	kingpin.Parse()

	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if *configPath != "" {
		_ = k.Load(file.Provider(*configPath), yaml.Parser())
	}
	return k
}

func slogLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func main() {
	k := LoadConfig()

	cfg := config.Config{}
	if err := k.Unmarshal("", &cfg); err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg = config.LoadSecrets(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, _ := zap.NewProduction()
	defer zlog.Sync()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel(cfg.Logger.Level),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(cfg.DB.Path, logger)
	if err != nil {
		zlog.Fatal("cannot open database", zap.Error(err))
	}
	defer db.Close()

	slips := repository.NewSlipRepository(db, logger)
	norm := normalizer.New(logger)
	ocrClient := ocr.NewClient(ocr.Config{
		Endpoint: cfg.OCR.Endpoint,
		APIKey:   cfg.OCR.APIKey,
		Model:    cfg.OCR.Model,
		Timeout:  cfg.OCR.Timeout,
	}, logger)
	exportSvc := export.NewService(slips, logger)

	srv := server.New(norm, slips, exportSvc, ocrClient, cfg.Batch.MaxSlips, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("http server starting", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
	zlog.Info("stopped")
}
