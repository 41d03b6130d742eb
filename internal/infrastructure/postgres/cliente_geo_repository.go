package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
)

var _ repository.ClienteGeoRepository = (*ClienteGeoRepo)(nil)

const clienteGeoColumns = `cnpj, nome, endereco, cidade, uf, cep, latitude, longitude,
	distancia, geocodificado, updated_at`

// ClienteGeoRepo implementação do porto ClienteGeoRepository sobre
// PostgreSQL (pool ou tx).
type ClienteGeoRepo struct {
	q Querier
}

// NewClienteGeoRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewClienteGeoRepository(q Querier) *ClienteGeoRepo {
	return &ClienteGeoRepo{q: q}
}

// EnsurePendente registra o cliente sem coordenadas na primeira NF-e que o
// referencia; CNPJ já conhecido é ignorado.
func (r *ClienteGeoRepo) EnsurePendente(ctx context.Context, c *entity.ClienteGeo) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO cliente_geo (`+clienteGeoColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, 0, 0, 0, FALSE, $7)
		 ON CONFLICT (cnpj) DO NOTHING`,
		c.CNPJ, c.Nome, c.Endereco, c.Cidade, c.UF, c.CEP, time.Now(),
	)
	if err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("ensure cliente_geo: %w", err)
	}
	return nil
}

// ListPendentes pagina clientes ainda não geocodificados.
func (r *ClienteGeoRepo) ListPendentes(ctx context.Context, limit int) ([]*entity.ClienteGeo, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+clienteGeoColumns+` FROM cliente_geo
		 WHERE geocodificado = FALSE ORDER BY updated_at LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list cliente_geo pendentes: %w", err)
	}
	defer rows.Close()

	var list []*entity.ClienteGeo
	for rows.Next() {
		var c entity.ClienteGeo
		if err := rows.Scan(&c.CNPJ, &c.Nome, &c.Endereco, &c.Cidade, &c.UF, &c.CEP,
			&c.Latitude, &c.Longitude, &c.Distancia, &c.Geocodificado, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cliente_geo: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// SaveGeo grava coordenadas e distância resolvidas pelo worker.
func (r *ClienteGeoRepo) SaveGeo(ctx context.Context, c *entity.ClienteGeo) error {
	_, err := r.q.Exec(ctx,
		`UPDATE cliente_geo
		 SET latitude = $2, longitude = $3, distancia = $4, geocodificado = $5, updated_at = $6
		 WHERE cnpj = $1`,
		c.CNPJ, c.Latitude, c.Longitude, c.Distancia, c.Geocodificado, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save geo cliente: %w", err)
	}
	return nil
}

// GetByCNPJ busca o cliente; (nil, nil) quando desconhecido.
func (r *ClienteGeoRepo) GetByCNPJ(ctx context.Context, cnpj string) (*entity.ClienteGeo, error) {
	var c entity.ClienteGeo
	err := r.q.QueryRow(ctx,
		`SELECT `+clienteGeoColumns+` FROM cliente_geo WHERE cnpj = $1`, cnpj,
	).Scan(&c.CNPJ, &c.Nome, &c.Endereco, &c.Cidade, &c.UF, &c.CEP,
		&c.Latitude, &c.Longitude, &c.Distancia, &c.Geocodificado, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente_geo: %w", err)
	}
	return &c, nil
}
