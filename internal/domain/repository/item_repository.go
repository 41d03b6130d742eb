package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
)

// ItemRepository define o porto de persistência para itens de NF-e.
type ItemRepository interface {
	BulkInsert(ctx context.Context, itens []*entity.Item) (int, error)
	ListByChaveNF(ctx context.Context, chaveNF string) ([]*entity.Item, error)
	// ListSemPeso pagina itens cujo peso ainda não foi resolvido pelo
	// ProdutoPeso (peso_unitario nulo).
	ListSemPeso(ctx context.Context, limit int) ([]*entity.Item, error)
	UpdatePeso(ctx context.Context, chaveNF, itemNum string, unitario, total decimal.Decimal) error
}
