package repository

import (
	"context"

	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
)

// AnalyticsRepository expõe as leituras read-only usadas pelo motor de
// conciliação: as duas relações completas que alimentam o join.
type AnalyticsRepository interface {
	AllNfe(ctx context.Context) ([]*entity.Nfe, error)
	AllCte(ctx context.Context) ([]*entity.Cte, error)
}
