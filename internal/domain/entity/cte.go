package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de CT-e (tag tpCTe).
const (
	TpCteNormal       = "0"
	TpCteComplementar = "1" // cobrança adicional sobre embarque já documentado
)

// Cte representa um registro de frete: o par (chave do CT-e, chave da NF-e
// referenciada). Um mesmo CT-e que cobre N notas gera N registros, todos com
// o mesmo FreteValor — o valor é compartilhado pelo grupo, nunca somado.
// ChaveNF vazia indica frete órfão (CT-e sem nota referenciada), mantido em
// base para diagnóstico mas excluído da agregação por nota.
type Cte struct {
	ChaveCte      string
	ChaveNF       string
	Data          *time.Time
	NumeroCte     string
	Emitente      string
	CNPJEmit      string
	Remetente     string
	Destinatario  string
	FreteValor    decimal.Decimal
	PesoKg        decimal.Decimal
	NumeroNFCte   string // número da NF derivado das posições 25..34 da chave
	CidadeOrigem  string
	CidadeDestino string
	PedagioValor  decimal.Decimal // componentes PEDAGIO/VALE; atribuído integral, não rateado
	ChaveRefCte   string          // CT-e referenciado quando complementar
	TpCte         string
	Arquivo       string
}
