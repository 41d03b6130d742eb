package repository

import (
	"context"

	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
)

// ClienteGeoRepository define o porto de persistência para dados
// geográficos de clientes.
type ClienteGeoRepository interface {
	// EnsurePendente insere o cliente sem coordenadas se ainda não existir;
	// conflito de CNPJ é ignorado.
	EnsurePendente(ctx context.Context, c *entity.ClienteGeo) error
	// ListPendentes pagina clientes ainda não geocodificados.
	ListPendentes(ctx context.Context, limit int) ([]*entity.ClienteGeo, error)
	SaveGeo(ctx context.Context, c *entity.ClienteGeo) error
	GetByCNPJ(ctx context.Context, cnpj string) (*entity.ClienteGeo, error)
}
