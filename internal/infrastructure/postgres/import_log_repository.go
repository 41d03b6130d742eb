package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
)

var _ repository.ImportLogRepository = (*ImportLogRepo)(nil)

// ImportLogRepo implementação do porto ImportLogRepository sobre PostgreSQL.
type ImportLogRepo struct {
	q Querier
}

// NewImportLogRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewImportLogRepository(q Querier) *ImportLogRepo {
	return &ImportLogRepo{q: q}
}

// BulkInsert grava as entradas do lote; conflitos de id são ignorados.
func (r *ImportLogRepo) BulkInsert(ctx context.Context, logs []*entity.ImportLog) error {
	if len(logs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range logs {
		batch.Queue(
			`INSERT INTO import_log (id, data_hora, arquivo, tipo_doc, status, mensagem)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			l.ID, l.DataHora, l.Arquivo, l.TipoDoc, l.Status, l.Mensagem,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range logs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("bulk insert import_log: %w", err)
		}
	}
	return nil
}

// ListRecent devolve as entradas mais recentes do log de importação.
func (r *ImportLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.ImportLog, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, data_hora, arquivo, tipo_doc, status, mensagem
		 FROM import_log ORDER BY data_hora DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list import_log: %w", err)
	}
	defer rows.Close()

	var list []*entity.ImportLog
	for rows.Next() {
		var l entity.ImportLog
		if err := rows.Scan(&l.ID, &l.DataHora, &l.Arquivo, &l.TipoDoc, &l.Status, &l.Mensagem); err != nil {
			return nil, fmt.Errorf("scan import_log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
