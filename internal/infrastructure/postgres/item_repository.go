package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `chave_nf, numero_nf, emitente, item_num, produto, ncm, cfop, unidade,
	qtd_display, qtd_float, vl_total, peso_unitario, peso_total, arquivo`

// ItemRepo implementação do porto ItemRepository sobre PostgreSQL (pool ou tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// BulkInsert grava o lote ignorando conflitos do par (chave_nf, item_num).
func (r *ItemRepo) BulkInsert(ctx context.Context, itens []*entity.Item) (int, error) {
	if len(itens) == 0 {
		return 0, nil
	}
	query := `
		INSERT INTO item (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (chave_nf, item_num) DO NOTHING`

	// peso_unitario/peso_total entram nulos: NULL marca o item como pendente
	// para o resolvedor de pesos, zero é um valor resolvido válido.
	batch := &pgx.Batch{}
	for _, i := range itens {
		batch.Queue(query,
			i.ChaveNF, i.NumeroNF, i.Emitente, i.ItemNum, i.Produto, i.NCM, i.CFOP, i.Unidade,
			i.QtdDisplay, i.QtdFloat, i.VlTotal, nil, nil, i.Arquivo,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range itens {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("bulk insert item: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// ListByChaveNF devolve os itens de uma nota (drill-down do relatório).
func (r *ItemRepo) ListByChaveNF(ctx context.Context, chaveNF string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM item WHERE chave_nf = $1 ORDER BY item_num`
	return r.list(ctx, query, chaveNF)
}

// ListSemPeso pagina itens ainda sem peso resolvido.
func (r *ItemRepo) ListSemPeso(ctx context.Context, limit int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM item WHERE peso_unitario IS NULL LIMIT $1`
	return r.list(ctx, query, limit)
}

// UpdatePeso grava o peso unitário resolvido e o peso total estimado.
func (r *ItemRepo) UpdatePeso(ctx context.Context, chaveNF, itemNum string, unitario, total decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE item SET peso_unitario = $3, peso_total = $4 WHERE chave_nf = $1 AND item_num = $2`,
		chaveNF, itemNum, unitario, total,
	)
	if err != nil {
		return fmt.Errorf("update peso item: %w", err)
	}
	return nil
}

func (r *ItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list item: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		var i entity.Item
		var pesoUnitario, pesoTotal *decimal.Decimal
		if err := rows.Scan(
			&i.ChaveNF, &i.NumeroNF, &i.Emitente, &i.ItemNum, &i.Produto, &i.NCM, &i.CFOP, &i.Unidade,
			&i.QtdDisplay, &i.QtdFloat, &i.VlTotal, &pesoUnitario, &pesoTotal, &i.Arquivo,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if pesoUnitario != nil {
			i.PesoUnitario = *pesoUnitario
		}
		if pesoTotal != nil {
			i.PesoTotal = *pesoTotal
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
