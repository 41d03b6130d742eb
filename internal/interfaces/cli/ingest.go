package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/leitor-fiscal/internal/application/ingest"
	"github.com/jhoicas/leitor-fiscal/pkg/config"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
	"github.com/spf13/cobra"
)

func newIngestCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	var tipo string

	cmd := &cobra.Command{
		Use:   "ingest --tipo nfe|cte <arquivo>...",
		Short: "Importa arquivos XML (ou zips de XMLs) de NF-e ou CT-e",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			arquivos := make([]ingest.Arquivo, 0, len(args))
			for _, caminho := range args {
				conteudo, err := os.ReadFile(caminho)
				if err != nil {
					return fmt.Errorf("ler %s: %w", caminho, err)
				}
				arquivos = append(arquivos, ingest.Arquivo{
					Nome:     filepath.Base(caminho),
					Conteudo: conteudo,
				})
			}

			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.ingest.ProcessFiles(ctx, tipo, arquivos)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"documentos: %d\nnfe inseridas: %d\ncte inseridos: %d\nitens: %d\npesos resolvidos: %d\nfalhas: %d\nignorados: %d\nórfãos: %d\n",
				res.Documentos, res.NfeInseridas, res.CteInseridos, res.Itens,
				res.PesosResolvidos, res.Falhas, res.Ignorados, res.Orfaos)
			return nil
		},
	}

	cmd.Flags().StringVar(&tipo, "tipo", "", "tipo de documento: nfe ou cte")
	_ = cmd.MarkFlagRequired("tipo")
	return cmd
}
