package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/leitor-fiscal/internal/interfaces/cli"
	"github.com/jhoicas/leitor-fiscal/pkg/config"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Debug().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.New(cfg, log)
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("execução abortada")
		os.Exit(1)
	}
}
