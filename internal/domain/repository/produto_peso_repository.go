package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
)

// ProdutoPesoRepository define o porto de persistência para o mapa
// descrição → peso unitário.
type ProdutoPesoRepository interface {
	// Get devolve (nil, nil) quando a descrição ainda não existe.
	Get(ctx context.Context, produto string) (*entity.ProdutoPeso, error)
	// GetOrCreate insere o registro se a descrição for inédita e devolve o
	// registro vigente. Atômico: duas ingestões concorrentes vendo o mesmo
	// produto pela primeira vez não criam duplicata — a primeira escrita
	// vence e a segunda recebe o registro existente.
	GetOrCreate(ctx context.Context, p *entity.ProdutoPeso) (*entity.ProdutoPeso, error)
	// SetManual grava a correção de operador (Manual=true), que a inferência
	// nunca sobrescreve.
	SetManual(ctx context.Context, produto string, peso decimal.Decimal) error
}
