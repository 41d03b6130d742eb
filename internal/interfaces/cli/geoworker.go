package cli

import (
	"context"
	"errors"

	"github.com/jhoicas/leitor-fiscal/pkg/config"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
	"github.com/spf13/cobra"
)

func newGeoWorkerCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "geo-worker",
		Short: "Executa o worker de geocodificação até ser interrompido",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.worker.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
