package cli

import (
	"fmt"

	"github.com/jhoicas/leitor-fiscal/internal/domain"
	"github.com/jhoicas/leitor-fiscal/pkg/config"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPesoCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peso",
		Short: "Gerencia o dicionário de pesos de produto",
	}
	cmd.AddCommand(newPesoSetCmd(cfg, log), newPesoResolveCmd(cfg, log))
	return cmd
}

func newPesoSetCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "set <produto> <kg>",
		Short: "Fixa manualmente o peso unitário de um produto (kg)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kg, err := decimal.NewFromString(args[1])
			if err != nil || kg.IsNegative() {
				return fmt.Errorf("%w: peso %q", domain.ErrInvalidInput, args[1])
			}

			a, err := buildApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.pesos.SetManual(cmd.Context(), args[0], kg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "peso de %q fixado em %s kg\n", args[0], kg)
			return nil
		},
	}
}

func newPesoResolveCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve os pesos de itens ainda pendentes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.pesos.ResolvePendentes(cmd.Context(), cfg.Ingest.BatchSize)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d itens resolvidos\n", n)
			return nil
		},
	}
}
