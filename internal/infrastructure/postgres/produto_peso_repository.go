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

var _ repository.ProdutoPesoRepository = (*ProdutoPesoRepo)(nil)

// ProdutoPesoRepo implementação do porto ProdutoPesoRepository sobre
// PostgreSQL (pool ou tx).
type ProdutoPesoRepo struct {
	q Querier
}

// NewProdutoPesoRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewProdutoPesoRepository(q Querier) *ProdutoPesoRepo {
	return &ProdutoPesoRepo{q: q}
}

// Get busca pelo produto normalizado; (nil, nil) quando inédito.
func (r *ProdutoPesoRepo) Get(ctx context.Context, produto string) (*entity.ProdutoPeso, error) {
	var p entity.ProdutoPeso
	err := r.q.QueryRow(ctx,
		`SELECT produto, peso_unitario, manual FROM produto_peso WHERE produto = $1`,
		produto,
	).Scan(&p.Produto, &p.PesoUnitario, &p.Manual)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get produto_peso: %w", err)
	}
	return &p, nil
}

// GetOrCreate insere com ON CONFLICT DO NOTHING e relê o registro vigente.
// Duas primeiras-vistas concorrentes do mesmo produto convergem para o
// mesmo registro: a inserção perdedora é ignorada e a releitura devolve o
// que ficou gravado.
func (r *ProdutoPesoRepo) GetOrCreate(ctx context.Context, p *entity.ProdutoPeso) (*entity.ProdutoPeso, error) {
	_, err := r.q.Exec(ctx,
		`INSERT INTO produto_peso (produto, peso_unitario, manual)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (produto) DO NOTHING`,
		p.Produto, p.PesoUnitario, p.Manual,
	)
	if err != nil && !isUniqueViolation(err) {
		return nil, fmt.Errorf("insert produto_peso: %w", err)
	}
	atual, err := r.Get(ctx, p.Produto)
	if err != nil {
		return nil, err
	}
	if atual == nil {
		return nil, fmt.Errorf("produto_peso %q: registro ausente após insert", p.Produto)
	}
	return atual, nil
}

// SetManual grava a correção de operador; Manual=true suprime qualquer
// reinferência futura.
func (r *ProdutoPesoRepo) SetManual(ctx context.Context, produto string, peso decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO produto_peso (produto, peso_unitario, manual)
		 VALUES ($1, $2, TRUE)
		 ON CONFLICT (produto) DO UPDATE SET peso_unitario = EXCLUDED.peso_unitario, manual = TRUE`,
		produto, peso,
	)
	if err != nil {
		return fmt.Errorf("set manual produto_peso: %w", err)
	}
	return nil
}
