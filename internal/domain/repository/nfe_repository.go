package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
)

// NfeRepository define o porto de persistência para cabeçalhos de NF-e.
type NfeRepository interface {
	// BulkInsert grava o lote ignorando conflitos de chave (reprocessar o
	// mesmo arquivo não é erro). Devolve quantos registros foram de fato
	// inseridos.
	BulkInsert(ctx context.Context, notas []*entity.Nfe) (int, error)
	GetByChave(ctx context.Context, chave string) (*entity.Nfe, error)
	All(ctx context.Context) ([]*entity.Nfe, error)
	// ListSemDistancia pagina as notas ainda sem distância de rota calculada
	// (fila do worker de geocodificação).
	ListSemDistancia(ctx context.Context, limit int) ([]*entity.Nfe, error)
	UpdateDistancia(ctx context.Context, chave string, km decimal.Decimal) error
}
