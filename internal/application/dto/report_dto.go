// Package dto define as estruturas de saída consumidas pelo reporting.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LinhaAnalitica é uma linha da tabela analítica: um cabeçalho de NF-e
// enriquecido com o frete rateado, classificação de operação, região e
// campos formatados. Notas sem CT-e aparecem com métricas de frete zeradas.
type LinhaAnalitica struct {
	ChaveNF      string
	NumeroNF     string
	Data         *time.Time
	Ano          int
	Mes          int
	Dia          int

	Emitente            string
	CNPJEmit            string
	EmitenteLegivel     string
	Destinatario        string
	CNPJDest            string
	DestinatarioLegivel string

	CidadeOrigem  string
	CidadeDestino string
	UFDest        string
	Regiao        string
	Distancia     decimal.Decimal

	ValorNF   decimal.Decimal
	PesoBruto decimal.Decimal
	QtdItens  int

	// Métricas de frete agregadas de todos os CT-e (normais + complementares).
	FreteValor   decimal.Decimal
	PedagioValor decimal.Decimal
	PesoCteTotal decimal.Decimal

	// Números de documento reportados separadamente por tipo: distinção de
	// relatório, não financeira — FreteValor já soma os dois.
	NumeroCte       string
	CteComplementar string

	TransportadoraFinal string
	FreteTipo           string // CIF | FOB | Outros
	Operacao            string // Venda | Compra | Transferência | Outros

	// Campos formatados para exibição (padrão pt-BR).
	FreteFmt   string
	PesoFmt    string
	PesoCteFmt string
	ValorNFFmt string
}

// KPIs agregados sobre um conjunto de linhas analíticas.
type KPIs struct {
	TotalNF      string
	PesoTotal    string
	FreteTotal   string
	PedagioTotal string
	PercFrete    string
	Viagens      int
}

// ItemDetalhe linha do drill-down de itens de uma nota.
type ItemDetalhe struct {
	ItemNum      string
	Produto      string
	NCM          string
	CFOP         string
	Unidade      string
	QtdFmt       string
	VlTotal      decimal.Decimal
	VlTotalFmt   string
	PesoUnitario decimal.Decimal
	PesoTotal    decimal.Decimal
}
