package entity

import "github.com/shopspring/decimal"

// Item representa uma linha de produto de uma NF-e.
// Chave composta (ChaveNF, ItemNum); ItemNum vem do atributo nItem ou, na
// ausência, do índice posicional 1-based.
type Item struct {
	ChaveNF      string
	NumeroNF     string
	Emitente     string
	ItemNum      string
	Produto      string
	NCM          string
	CFOP         string
	Unidade      string
	QtdDisplay   string // quantidade formatada para exibição (padrão pt-BR)
	QtdFloat     decimal.Decimal
	VlTotal      decimal.Decimal
	PesoUnitario decimal.Decimal // kg por unidade, resolvido pelo ProdutoPeso
	PesoTotal    decimal.Decimal // PesoUnitario × QtdFloat
	Arquivo      string
}
