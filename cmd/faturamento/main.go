package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"faturamento/internal/cli"
	"faturamento/internal/core"
	apphttp "faturamento/internal/http"
	"faturamento/internal/ingest"
	"faturamento/internal/session"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	variant, err := core.ParseVariant(cfg.SchemaVariant)
	if err != nil {
		logger.Error("Invalid schema variant", "error", err)
		os.Exit(1)
	}

	registry := cli.LoadRegistry(logger, cfg.UsersFile)
	sessions := session.NewStore(cfg.SessionLimit, cfg.SessionTTL)

	ingestCfg := ingest.Config{
		Delimiter: cfg.DelimiterRune(),
		Encoding:  cfg.Encoding,
	}

	srv := apphttp.NewServer(":"+cfg.Port, sessions, registry, ingestCfg, variant, cfg.MaxUploadBytes)
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting faturamento server",
			"port", cfg.Port,
			"schema_variant", cfg.SchemaVariant,
			"encoding", cfg.Encoding)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
