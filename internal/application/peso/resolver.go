// Package peso resolve o peso unitário de produtos a partir da descrição
// livre da NF-e: consulta o mapa persistido e, para descrições inéditas,
// infere por regex e grava o resultado — a inferência roda uma única vez
// por descrição, não a cada reimportação.
package peso

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
)

// Padrões de inferência, tentados em ordem sobre a descrição em maiúsculas
// com vírgula decimal normalizada para ponto. O primeiro que casar vence.
var (
	// "350G/12UN" → 350 g × 12 un / 1000 = 4.2 kg
	reGramasPorUnidade = regexp.MustCompile(`(\d+(?:\.\d+)?)G/(\d+)UN`)
	// "06UN 3KG" → 6 × 3 = 18 kg
	reUnidadesVezesKg = regexp.MustCompile(`(\d+)(?:UN|CX|PC|X)\s*(\d+(?:\.\d+)?)\s*KG`)
	// "25KG" → 25 kg
	reKg = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*KG`)
	// "500G" → 0.5 kg; \b evita casar prefixos como "GR"
	reGramas = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*G\b`)

	reEspacos = regexp.MustCompile(`\s+`)
	mil       = decimal.NewFromInt(1000)
)

// Resolver implementa o ciclo lookup → inferência → gravação atômica.
type Resolver struct {
	pesos repository.ProdutoPesoRepository
	itens repository.ItemRepository
	log   *logger.Logger
}

// NewResolver constrói o resolvedor.
func NewResolver(pesos repository.ProdutoPesoRepository, itens repository.ItemRepository, log *logger.Logger) *Resolver {
	return &Resolver{pesos: pesos, itens: itens, log: log}
}

// NormalizarDescricao produz a chave do mapa: maiúsculas, espaços internos
// colapsados, comprimento limitado.
func NormalizarDescricao(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = reEspacos.ReplaceAllString(s, " ")
	if len(s) > entity.ProdutoPesoMaxLen {
		s = s[:entity.ProdutoPesoMaxLen]
	}
	return s
}

// InferirPeso aplica a cadeia de regex e devolve o peso unitário em kg;
// nenhum padrão casando devolve zero. Função pura, sem persistência.
func InferirPeso(descricao string) decimal.Decimal {
	d := strings.ReplaceAll(strings.ToUpper(descricao), ",", ".")

	if m := reGramasPorUnidade.FindStringSubmatch(d); m != nil {
		gramas, _ := decimal.NewFromString(m[1])
		unidades, _ := decimal.NewFromString(m[2])
		return gramas.Mul(unidades).Div(mil)
	}
	if m := reUnidadesVezesKg.FindStringSubmatch(d); m != nil {
		unidades, _ := decimal.NewFromString(m[1])
		kg, _ := decimal.NewFromString(m[2])
		return unidades.Mul(kg)
	}
	if m := reKg.FindStringSubmatch(d); m != nil {
		kg, _ := decimal.NewFromString(m[1])
		return kg
	}
	if m := reGramas.FindStringSubmatch(d); m != nil {
		gramas, _ := decimal.NewFromString(m[1])
		return gramas.Div(mil)
	}
	return decimal.Zero
}

// Resolve devolve o peso unitário em kg da descrição. Valor já armazenado é
// autoritativo, mesmo sendo zero e mesmo sem marcação manual — só a primeira
// vista de uma descrição passa pela inferência. A gravação é atômica:
// primeiras-vistas concorrentes convergem para um único registro.
func (r *Resolver) Resolve(ctx context.Context, descricao string) (decimal.Decimal, error) {
	norm := NormalizarDescricao(descricao)
	if norm == "" {
		return decimal.Zero, nil
	}

	existente, err := r.pesos.Get(ctx, norm)
	if err != nil {
		return decimal.Zero, fmt.Errorf("resolver peso %q: %w", norm, err)
	}
	if existente != nil {
		return existente.PesoUnitario, nil
	}

	inferido := InferirPeso(norm)
	atual, err := r.pesos.GetOrCreate(ctx, &entity.ProdutoPeso{
		Produto:      norm,
		PesoUnitario: inferido,
		Manual:       false,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("gravar peso %q: %w", norm, err)
	}
	return atual.PesoUnitario, nil
}

// SetManual grava a correção de operador para a descrição; a partir daí a
// inferência nunca mais toca o registro.
func (r *Resolver) SetManual(ctx context.Context, descricao string, kg decimal.Decimal) error {
	norm := NormalizarDescricao(descricao)
	if norm == "" {
		return fmt.Errorf("descrição vazia")
	}
	return r.pesos.SetManual(ctx, norm, kg)
}

// ResolvePendentes varre itens sem peso resolvido em páginas de tamanho
// fixo, preenchendo peso unitário e peso total estimado (unitário × qtd).
// Devolve quantos itens foram resolvidos.
func (r *Resolver) ResolvePendentes(ctx context.Context, pageSize int) (int, error) {
	resolvidos := 0
	for {
		pendentes, err := r.itens.ListSemPeso(ctx, pageSize)
		if err != nil {
			return resolvidos, fmt.Errorf("listar itens sem peso: %w", err)
		}
		if len(pendentes) == 0 {
			return resolvidos, nil
		}
		for _, item := range pendentes {
			unitario, err := r.Resolve(ctx, item.Produto)
			if err != nil {
				return resolvidos, err
			}
			total := unitario.Mul(item.QtdFloat)
			if err := r.itens.UpdatePeso(ctx, item.ChaveNF, item.ItemNum, unitario, total); err != nil {
				return resolvidos, err
			}
			resolvidos++
		}
		if len(pendentes) < pageSize {
			return resolvidos, nil
		}
	}
}
