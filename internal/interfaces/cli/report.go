package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/leitor-fiscal/internal/application/dto"
	"github.com/jhoicas/leitor-fiscal/internal/application/report"
	"github.com/jhoicas/leitor-fiscal/pkg/config"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
	"github.com/spf13/cobra"
)

func newReportCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	var chave, numeroNF, numeroCte string
	var limite int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Exibe os KPIs e a tabela analítica de frete por nota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			if chave != "" {
				return printItens(cmd, a, chave)
			}

			rows, err := a.report.BuildAnalyticalTable(ctx)
			if err != nil {
				return err
			}
			rows = filtrarLinhas(rows, numeroNF, numeroCte)

			kpis := report.Summary(rows)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "viagens: %d\nvalor total NF: %s\npeso total: %s\nfrete total: %s\npedágio total: %s\nfrete/valor: %s\n\n",
				kpis.Viagens, kpis.TotalNF, kpis.PesoTotal, kpis.FreteTotal, kpis.PedagioTotal, kpis.PercFrete)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NF\tDATA\tEMITENTE\tDESTINATÁRIO\tUF\tREGIÃO\tOPERAÇÃO\tFRETE\tPESO\tCT-e")
			for i, r := range rows {
				if limite > 0 && i >= limite {
					fmt.Fprintf(out, "... e mais %d linhas\n", len(rows)-limite)
					break
				}
				data := ""
				if r.Data != nil {
					data = r.Data.Format("02/01/2006")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.NumeroNF, data, r.EmitenteLegivel, r.DestinatarioLegivel,
					r.UFDest, r.Regiao, r.Operacao, r.FreteFmt, r.PesoFmt, r.NumeroCte)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&chave, "chave", "", "chave de acesso da NF-e para drill-down de itens")
	cmd.Flags().StringVar(&numeroNF, "nf", "", "filtra pelo número da NF-e")
	cmd.Flags().StringVar(&numeroCte, "cte", "", "filtra pelo número do CT-e")
	cmd.Flags().IntVar(&limite, "limite", 50, "máximo de linhas exibidas (0 = todas)")
	return cmd
}

// filtrarLinhas aplica os filtros opcionais de número; os KPIs são
// calculados sobre o conjunto filtrado.
func filtrarLinhas(rows []dto.LinhaAnalitica, numeroNF, numeroCte string) []dto.LinhaAnalitica {
	if numeroNF == "" && numeroCte == "" {
		return rows
	}
	out := rows[:0:0]
	for _, r := range rows {
		if numeroNF != "" && r.NumeroNF != numeroNF {
			continue
		}
		if numeroCte != "" && !contemNumero(r.NumeroCte, numeroCte) && !contemNumero(r.CteComplementar, numeroCte) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func contemNumero(lista, numero string) bool {
	for _, n := range strings.Split(lista, ",") {
		if strings.TrimSpace(n) == numero {
			return true
		}
	}
	return false
}

func printItens(cmd *cobra.Command, a *app, chave string) error {
	itens, err := a.report.ItemsByNF(cmd.Context(), chave)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUTO\tNCM\tCFOP\tUN\tQTD\tVALOR\tPESO TOTAL")
	for _, i := range itens {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i.ItemNum, i.Produto, i.NCM, i.CFOP, i.Unidade, i.QtdFmt,
			i.VlTotalFmt, i.PesoTotal.StringFixed(3))
	}
	return w.Flush()
}
