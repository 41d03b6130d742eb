package postgres

import (
	"context"

	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo leituras read-only do motor de conciliação: delega nas
// listagens completas dos repositórios de NF-e e CT-e.
type AnalyticsRepo struct {
	nfe *NfeRepo
	cte *CteRepo
}

// NewAnalyticsRepository constrói o adaptador read-only.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{nfe: NewNfeRepository(q), cte: NewCteRepository(q)}
}

// AllNfe devolve a relação completa de cabeçalhos.
func (r *AnalyticsRepo) AllNfe(ctx context.Context) ([]*entity.Nfe, error) {
	return r.nfe.All(ctx)
}

// AllCte devolve a relação completa de registros de frete.
func (r *AnalyticsRepo) AllCte(ctx context.Context) ([]*entity.Cte, error) {
	return r.cte.All(ctx)
}
