package repository

import (
	"context"

	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
)

// CteRepository define o porto de persistência para registros de frete.
// A chave composta (chave_cte, chave_nf) garante um registro por nota coberta.
type CteRepository interface {
	BulkInsert(ctx context.Context, registros []*entity.Cte) (int, error)
	All(ctx context.Context) ([]*entity.Cte, error)
}
