// Package report implementa o motor de conciliação: junta as NF-e com os
// CT-e, rateia o frete por peso entre as notas de cada conhecimento e
// produz a tabela analítica enriquecida consumida pelo reporting.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/leitor-fiscal/internal/application/dto"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/fiscal"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
)

// CacheKeyTabela chave única da tabela analítica no cache TTL.
const CacheKeyTabela = "tabela_analitica"

const transportadoraIndefinida = "---"

// TableCache contrato do cache da tabela analítica: populado sob demanda na
// primeira leitura, invalidado explicitamente por toda escrita de
// NF-e/CT-e, expirado por TTL. Leitura sob miss reconstrói sincronamente.
type TableCache interface {
	Get(key string) ([]dto.LinhaAnalitica, bool)
	Set(key string, rows []dto.LinhaAnalitica)
	Invalidate(key string)
}

// Config parâmetros de enriquecimento vindos da configuração da companhia.
type Config struct {
	// CNPJsProprios identifica as filiais da companhia para classificar a
	// operação (Venda/Compra/Transferência).
	CNPJsProprios []string
	// Aliases traduz CNPJ → rótulo legível, sobrepondo o nome declarado.
	Aliases map[string]string
}

// UseCase monta a tabela analítica a partir das duas relações completas.
type UseCase struct {
	analytics repository.AnalyticsRepository
	itens     repository.ItemRepository
	cache     TableCache
	proprios  map[string]bool
	aliases   map[string]string
	log       *logger.Logger
}

// NewUseCase constrói o motor. CNPJs são normalizados (somente dígitos) na
// construção; a comparação em tempo de consulta é O(1).
func NewUseCase(
	analytics repository.AnalyticsRepository,
	itens repository.ItemRepository,
	cache TableCache,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	proprios := make(map[string]bool, len(cfg.CNPJsProprios))
	for _, c := range cfg.CNPJsProprios {
		if limpo := fiscal.LimparCNPJ(c); limpo != "" {
			proprios[limpo] = true
		}
	}
	aliases := make(map[string]string, len(cfg.Aliases))
	for cnpj, alias := range cfg.Aliases {
		aliases[fiscal.LimparCNPJ(cnpj)] = alias
	}
	return &UseCase{
		analytics: analytics,
		itens:     itens,
		cache:     cache,
		proprios:  proprios,
		aliases:   aliases,
		log:       log,
	}
}

// cteMetrics agregado de frete por nota, somado sobre todos os registros de
// CT-e (normais e complementares) que a referenciam.
type cteMetrics struct {
	freteRateado   decimal.Decimal
	pedagio        decimal.Decimal
	pesoCte        decimal.Decimal
	transportadora string
	numerosNormais map[string]bool
	numerosComp    map[string]bool
}

// BuildAnalyticalTable devolve a tabela analítica, do cache quando viva,
// reconstruindo das relações completas sob miss.
func (uc *UseCase) BuildAnalyticalTable(ctx context.Context) ([]dto.LinhaAnalitica, error) {
	if rows, ok := uc.cache.Get(CacheKeyTabela); ok {
		return rows, nil
	}

	nfes, err := uc.analytics.AllNfe(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar nfe: %w", err)
	}
	ctes, err := uc.analytics.AllCte(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar cte: %w", err)
	}

	metrics := uc.aggregateFreight(nfes, ctes)

	rows := make([]dto.LinhaAnalitica, 0, len(nfes))
	for _, n := range nfes {
		rows = append(rows, uc.buildRow(n, metrics[n.ChaveNF]))
	}

	uc.cache.Set(CacheKeyTabela, rows)
	return rows, nil
}

// InvalidateCache descarta a tabela cacheada. Chamado por todo flush de
// ingestão bem-sucedido, antes da próxima leitura.
func (uc *UseCase) InvalidateCache() {
	uc.cache.Invalidate(CacheKeyTabela)
}

// aggregateFreight aplica o rateio por grupo de CT-e e agrega por nota.
//
// Regra de rateio por grupo (todos os registros de uma chave_cte):
//   - frete total zero        → parcela zero para todas as notas;
//   - soma dos pesos > 0      → parcela proporcional ao peso bruto da nota;
//   - sem dado de peso        → divisão igualitária pelo número de notas.
//
// O pedágio não é rateado: vai integral para cada registro do grupo.
func (uc *UseCase) aggregateFreight(nfes []*entity.Nfe, ctes []*entity.Cte) map[string]*cteMetrics {
	pesoPorNF := make(map[string]decimal.Decimal, len(nfes))
	for _, n := range nfes {
		pesoPorNF[n.ChaveNF] = n.PesoBruto
	}

	grupos := make(map[string][]*entity.Cte)
	for _, c := range ctes {
		grupos[c.ChaveCte] = append(grupos[c.ChaveCte], c)
	}

	metrics := make(map[string]*cteMetrics)
	for chaveCte, grupo := range grupos {
		totalPeso := decimal.Zero
		for _, r := range grupo {
			totalPeso = totalPeso.Add(pesoPorNF[r.ChaveNF])
		}
		// O valor total é compartilhado por todos os registros do grupo,
		// nunca somado entre eles.
		totalFrete := grupo[0].FreteValor
		qtdNotas := decimal.NewFromInt(int64(len(grupo)))

		for _, r := range grupo {
			var parcela decimal.Decimal
			switch {
			case totalFrete.IsZero():
				parcela = decimal.Zero
			case totalPeso.GreaterThan(decimal.Zero):
				parcela = totalFrete.Mul(pesoPorNF[r.ChaveNF]).Div(totalPeso)
			default:
				parcela = totalFrete.Div(qtdNotas)
			}

			if r.ChaveNF == "" {
				// Frete órfão: fica fora da agregação por nota, mas nunca
				// some do diagnóstico.
				uc.log.Warn().
					Str("chave_cte", chaveCte).
					Str("numero_cte", r.NumeroCte).
					Str("arquivo", r.Arquivo).
					Msg("frete órfão: CT-e sem nota referenciada excluído da agregação")
				continue
			}

			m, ok := metrics[r.ChaveNF]
			if !ok {
				m = &cteMetrics{
					numerosNormais: make(map[string]bool),
					numerosComp:    make(map[string]bool),
				}
				metrics[r.ChaveNF] = m
			}
			m.freteRateado = m.freteRateado.Add(parcela)
			m.pedagio = m.pedagio.Add(r.PedagioValor)
			m.pesoCte = m.pesoCte.Add(r.PesoKg)
			if m.transportadora == "" {
				m.transportadora = r.Emitente
			}
			if r.TpCte == entity.TpCteComplementar {
				m.numerosComp[r.NumeroCte] = true
			} else {
				m.numerosNormais[r.NumeroCte] = true
			}
		}
	}
	return metrics
}

// buildRow monta a linha analítica de uma nota; m nil significa nota sem
// nenhum CT-e (frete zerado — dado de frete é opcional, nunca obrigatório).
func (uc *UseCase) buildRow(n *entity.Nfe, m *cteMetrics) dto.LinhaAnalitica {
	row := dto.LinhaAnalitica{
		ChaveNF:       n.ChaveNF,
		NumeroNF:      n.NumeroNF,
		Data:          n.Data,
		Emitente:      n.Emitente,
		CNPJEmit:      n.CNPJEmit,
		Destinatario:  n.Destinatario,
		CNPJDest:      n.CNPJDest,
		CidadeOrigem:  n.CidadeOrigem,
		CidadeDestino: n.CidadeDestino,
		Distancia:     n.Distancia,
		ValorNF:       n.ValorNF,
		PesoBruto:     n.PesoBruto,
		QtdItens:      n.QtdItens,
	}
	if n.Data != nil {
		row.Ano = n.Data.Year()
		row.Mes = int(n.Data.Month())
		row.Dia = n.Data.Day()
	}

	row.UFDest = n.UFDest
	if row.UFDest == "" {
		row.UFDest = fiscal.UFDeCidade(n.CidadeDestino)
	}
	row.Regiao = fiscal.Regiao(row.UFDest)

	row.TransportadoraFinal = n.Transportadora
	if m != nil {
		row.FreteValor = m.freteRateado
		row.PedagioValor = m.pedagio
		row.PesoCteTotal = m.pesoCte
		row.NumeroCte = joinSorted(m.numerosNormais)
		row.CteComplementar = joinSorted(m.numerosComp)
		if m.transportadora != "" {
			row.TransportadoraFinal = m.transportadora
		}
	}
	if row.TransportadoraFinal == "" {
		row.TransportadoraFinal = transportadoraIndefinida
	}

	row.FreteTipo = fiscal.TipoFrete(n.ModFrete)
	row.Operacao = fiscal.Operacao(n.CNPJEmit, n.CNPJDest, uc.proprios)
	row.EmitenteLegivel = fiscal.TraduzirEmpresa(n.Emitente, n.CNPJEmit, uc.aliases)
	row.DestinatarioLegivel = fiscal.TraduzirEmpresa(n.Destinatario, n.CNPJDest, uc.aliases)

	row.FreteFmt = fiscal.BRMoney(row.FreteValor)
	row.PesoFmt = fiscal.BRWeight(row.PesoBruto)
	row.PesoCteFmt = fiscal.BRWeight(row.PesoCteTotal)
	row.ValorNFFmt = fiscal.BRMoney(row.ValorNF)
	return row
}

// joinSorted concatena os números de documento deduplicados, ordenados e
// separados por vírgula.
func joinSorted(set map[string]bool) string {
	if len(set) == 0 {
		return ""
	}
	nums := make([]string, 0, len(set))
	for n := range set {
		if n != "" {
			nums = append(nums, n)
		}
	}
	sort.Strings(nums)
	return strings.Join(nums, ", ")
}

// Summary calcula os KPIs agregados de um conjunto de linhas.
func Summary(rows []dto.LinhaAnalitica) dto.KPIs {
	var frete, valorNF, pedagio, peso decimal.Decimal
	for _, r := range rows {
		frete = frete.Add(r.FreteValor)
		valorNF = valorNF.Add(r.ValorNF)
		pedagio = pedagio.Add(r.PedagioValor)
		peso = peso.Add(r.PesoBruto)
	}
	percFrete := decimal.Zero
	if valorNF.GreaterThan(decimal.Zero) {
		percFrete = frete.Div(valorNF).Mul(decimal.NewFromInt(100))
	}
	return dto.KPIs{
		TotalNF:      fiscal.BRMoney(valorNF),
		PesoTotal:    fiscal.BRWeight(peso),
		FreteTotal:   fiscal.BRMoney(frete),
		PedagioTotal: fiscal.BRMoney(pedagio),
		PercFrete:    fiscal.BRPercent(percFrete),
		Viagens:      len(rows),
	}
}

// ItemsByNF devolve o drill-down de itens de uma nota com pesos resolvidos
// e valores formatados.
func (uc *UseCase) ItemsByNF(ctx context.Context, chaveNF string) ([]dto.ItemDetalhe, error) {
	itens, err := uc.itens.ListByChaveNF(ctx, chaveNF)
	if err != nil {
		return nil, fmt.Errorf("itens da nota %s: %w", chaveNF, err)
	}
	out := make([]dto.ItemDetalhe, 0, len(itens))
	for _, i := range itens {
		out = append(out, dto.ItemDetalhe{
			ItemNum:      i.ItemNum,
			Produto:      i.Produto,
			NCM:          i.NCM,
			CFOP:         i.CFOP,
			Unidade:      i.Unidade,
			QtdFmt:       i.QtdDisplay,
			VlTotal:      i.VlTotal,
			VlTotalFmt:   fiscal.BRMoney(i.VlTotal),
			PesoUnitario: i.PesoUnitario,
			PesoTotal:    i.PesoTotal,
		})
	}
	return out, nil
}
