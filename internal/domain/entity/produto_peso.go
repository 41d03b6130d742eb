package entity

import "github.com/shopspring/decimal"

// ProdutoPesoMaxLen limite da descrição normalizada usada como chave.
const ProdutoPesoMaxLen = 120

// ProdutoPeso mapeia uma descrição de produto (normalizada) para o peso
// unitário em kg. Criado na primeira ocorrência da descrição — pelo regex de
// inferência ou com peso zero — e nunca apagado. Um valor armazenado é
// autoritativo mesmo sendo zero: a inferência só roda quando a descrição
// ainda não existe. Manual=true marca correção de operador e é terminal.
type ProdutoPeso struct {
	Produto      string
	PesoUnitario decimal.Decimal
	Manual       bool
}
