package repository

import (
	"context"

	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
)

// ImportLogRepository define o porto de persistência para o log de
// importação (falhas de parse, variantes ignoradas, fretes órfãos).
type ImportLogRepository interface {
	BulkInsert(ctx context.Context, logs []*entity.ImportLog) error
	ListRecent(ctx context.Context, limit int) ([]*entity.ImportLog, error)
}
