package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
)

var _ repository.CteRepository = (*CteRepo)(nil)

const cteColumns = `chave_cte, chave_nf, data, numero_cte, emitente, cnpj_emit, remetente,
	destinatario, frete_valor, peso_kg, numero_nf_cte, cidade_origem, cidade_destino,
	pedagio_valor, chave_ref_cte, tp_cte, arquivo`

// CteRepo implementação do porto CteRepository sobre PostgreSQL (pool ou tx).
type CteRepo struct {
	q Querier
}

// NewCteRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewCteRepository(q Querier) *CteRepo {
	return &CteRepo{q: q}
}

// BulkInsert grava o lote ignorando conflitos do par (chave_cte, chave_nf).
func (r *CteRepo) BulkInsert(ctx context.Context, registros []*entity.Cte) (int, error) {
	if len(registros) == 0 {
		return 0, nil
	}
	query := `
		INSERT INTO cte (` + cteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (chave_cte, chave_nf) DO NOTHING`

	batch := &pgx.Batch{}
	for _, c := range registros {
		batch.Queue(query,
			c.ChaveCte, c.ChaveNF, c.Data, c.NumeroCte, c.Emitente, c.CNPJEmit, c.Remetente,
			c.Destinatario, c.FreteValor, c.PesoKg, c.NumeroNFCte, c.CidadeOrigem, c.CidadeDestino,
			c.PedagioValor, c.ChaveRefCte, c.TpCte, c.Arquivo,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range registros {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("bulk insert cte: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// All devolve todos os registros de frete.
func (r *CteRepo) All(ctx context.Context) ([]*entity.Cte, error) {
	query := `SELECT ` + cteColumns + ` FROM cte`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cte: %w", err)
	}
	defer rows.Close()

	var list []*entity.Cte
	for rows.Next() {
		var c entity.Cte
		if err := rows.Scan(
			&c.ChaveCte, &c.ChaveNF, &c.Data, &c.NumeroCte, &c.Emitente, &c.CNPJEmit, &c.Remetente,
			&c.Destinatario, &c.FreteValor, &c.PesoKg, &c.NumeroNFCte, &c.CidadeOrigem, &c.CidadeDestino,
			&c.PedagioValor, &c.ChaveRefCte, &c.TpCte, &c.Arquivo,
		); err != nil {
			return nil, fmt.Errorf("scan cte: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
