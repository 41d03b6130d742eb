package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modalidades de frete (tag modFrete da NF-e).
const (
	ModFreteCIF       = "0" // por conta do emitente
	ModFreteFOB       = "1" // por conta do destinatário
	ModFreteTerceiros = "2"
	ModFreteSemFrete  = "9" // default quando o XML não informa
)

// Nfe representa o cabeçalho de uma NF-e importada.
// ChaveNF é a chave de acesso de 44 dígitos (única em todo o sistema).
// Uma NF-e pode existir sem nenhum CT-e associado (frete próprio ou pendente).
type Nfe struct {
	ChaveNF          string
	Data             *time.Time // nil quando a data de emissão não pôde ser interpretada
	NumeroNF         string
	Emitente         string
	CNPJEmit         string
	Destinatario     string
	CNPJDest         string
	UFDest           string
	ValorNF          decimal.Decimal
	PesoBruto        decimal.Decimal // soma de pesoB de todos os volumes, em kg
	Transportadora   string
	CidadeOrigem     string
	CidadeDestino    string
	ModFrete         string
	CFOPPredominante string
	TipoOperacao     string
	QtdItens         int
	CEPOrigem        string
	CEPDestino       string
	Distancia        decimal.Decimal // km calculados pelo worker de rotas; 0 = pendente
	Arquivo          string
}
