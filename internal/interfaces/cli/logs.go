package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/jhoicas/leitor-fiscal/pkg/config"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
	"github.com/spf13/cobra"
)

func newLogsCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	var limite int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Exibe as entradas recentes do log de importação",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			entradas, err := a.logs.ListRecent(cmd.Context(), limite)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATA/HORA\tTIPO\tSTATUS\tARQUIVO\tMENSAGEM")
			for _, e := range entradas {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.DataHora.Format("02/01/2006 15:04"), e.TipoDoc, e.Status, e.Arquivo, e.Mensagem)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limite, "limite", 100, "máximo de entradas exibidas")
	return cmd
}
