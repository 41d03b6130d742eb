package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
)

var _ repository.NfeRepository = (*NfeRepo)(nil)

const nfeColumns = `chave_nf, data, numero_nf, emitente, cnpj_emit, destinatario, cnpj_dest,
	uf_dest, valor_nf, peso_bruto, transportadora, cidade_origem, cidade_destino,
	mod_frete, cfop_predominante, tipo_operacao, qtd_itens, cep_origem, cep_destino,
	distancia, arquivo`

// NfeRepo implementação do porto NfeRepository sobre PostgreSQL (pool ou tx).
type NfeRepo struct {
	q Querier
}

// NewNfeRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewNfeRepository(q Querier) *NfeRepo {
	return &NfeRepo{q: q}
}

// BulkInsert grava o lote com ON CONFLICT DO NOTHING: reprocessar o mesmo
// documento não é erro, a chave existente vence. Devolve o total inserido.
func (r *NfeRepo) BulkInsert(ctx context.Context, notas []*entity.Nfe) (int, error) {
	if len(notas) == 0 {
		return 0, nil
	}
	query := `
		INSERT INTO nfe (` + nfeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (chave_nf) DO NOTHING`

	batch := &pgx.Batch{}
	for _, n := range notas {
		batch.Queue(query,
			n.ChaveNF, n.Data, n.NumeroNF, n.Emitente, n.CNPJEmit, n.Destinatario, n.CNPJDest,
			n.UFDest, n.ValorNF, n.PesoBruto, n.Transportadora, n.CidadeOrigem, n.CidadeDestino,
			n.ModFrete, n.CFOPPredominante, n.TipoOperacao, n.QtdItens, n.CEPOrigem, n.CEPDestino,
			n.Distancia, n.Arquivo,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range notas {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("bulk insert nfe: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// GetByChave busca um cabeçalho pela chave de acesso; (nil, nil) se ausente.
func (r *NfeRepo) GetByChave(ctx context.Context, chave string) (*entity.Nfe, error) {
	query := `SELECT ` + nfeColumns + ` FROM nfe WHERE chave_nf = $1`
	n, err := scanNfe(r.q.QueryRow(ctx, query, chave))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nfe: %w", err)
	}
	return n, nil
}

// All devolve todos os cabeçalhos (relação completa do motor de conciliação).
func (r *NfeRepo) All(ctx context.Context) ([]*entity.Nfe, error) {
	query := `SELECT ` + nfeColumns + ` FROM nfe`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list nfe: %w", err)
	}
	defer rows.Close()

	var list []*entity.Nfe
	for rows.Next() {
		n, err := scanNfe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nfe: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// ListSemDistancia pagina as notas com distância zerada e CEP de destino
// conhecido (fila do worker de rotas).
func (r *NfeRepo) ListSemDistancia(ctx context.Context, limit int) ([]*entity.Nfe, error) {
	query := `SELECT ` + nfeColumns + ` FROM nfe
		WHERE distancia = 0 AND cep_destino <> '' ORDER BY data NULLS LAST LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list nfe sem distância: %w", err)
	}
	defer rows.Close()

	var list []*entity.Nfe
	for rows.Next() {
		n, err := scanNfe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nfe: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// UpdateDistancia grava a distância de rota calculada pelo worker.
func (r *NfeRepo) UpdateDistancia(ctx context.Context, chave string, km decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE nfe SET distancia = $2 WHERE chave_nf = $1`, chave, km)
	if err != nil {
		return fmt.Errorf("update distância nfe: %w", err)
	}
	return nil
}

func scanNfe(row pgx.Row) (*entity.Nfe, error) {
	var n entity.Nfe
	err := row.Scan(
		&n.ChaveNF, &n.Data, &n.NumeroNF, &n.Emitente, &n.CNPJEmit, &n.Destinatario, &n.CNPJDest,
		&n.UFDest, &n.ValorNF, &n.PesoBruto, &n.Transportadora, &n.CidadeOrigem, &n.CidadeDestino,
		&n.ModFrete, &n.CFOPPredominante, &n.TipoOperacao, &n.QtdItens, &n.CEPOrigem, &n.CEPDestino,
		&n.Distancia, &n.Arquivo,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
