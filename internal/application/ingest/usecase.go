// Package ingest implementa o caso de uso de importação de documentos
// fiscais: expande zips, roteia cada XML para o parser do tipo, acumula
// lotes e grava com tolerância a duplicata. Um documento ruim nunca aborta
// o lote: vira entrada no log de importação e o processamento continua.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/leitor-fiscal/internal/application/peso"
	"github.com/jhoicas/leitor-fiscal/internal/domain"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/fiscal"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
	"github.com/jhoicas/leitor-fiscal/internal/infrastructure/fiscalxml"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
)

// Tipos de documento aceitos pela ingestão.
const (
	TipoNFe = "nfe"
	TipoCte = "cte"
)

// Arquivo é uma unidade de entrada já lida: um XML solto ou um zip de XMLs.
type Arquivo struct {
	Nome     string
	Conteudo []byte
}

// Resultado resume uma execução de ingestão.
type Resultado struct {
	Documentos      int // XMLs individuais processados (zips já expandidos)
	NfeInseridas    int
	CteInseridos    int
	Itens           int
	PesosResolvidos int
	Falhas          int // documentos irrecuperáveis
	Ignorados       int // variantes reconhecidas mas irrelevantes
	Orfaos          int // registros de frete sem nota referenciada
}

// CacheInvalidator é o que a ingestão precisa do motor de relatórios:
// descartar a tabela analítica cacheada após cada flush.
type CacheInvalidator interface {
	InvalidateCache()
}

// GeoSignaler acorda o worker de geocodificação após novos registros.
type GeoSignaler interface {
	Signal()
}

// UseCase orquestra a ingestão de NF-e e CT-e.
type UseCase struct {
	nfes      repository.NfeRepository
	ctes      repository.CteRepository
	itens     repository.ItemRepository
	logs      repository.ImportLogRepository
	clientes  repository.ClienteGeoRepository
	pesos     *peso.Resolver
	cache     CacheInvalidator
	geo       GeoSignaler
	batchSize int
	log       *logger.Logger
}

// NewUseCase constrói o caso de uso. cache e geo podem ser nil (execuções
// utilitárias sem motor de relatório ou sem worker ativo).
func NewUseCase(
	nfes repository.NfeRepository,
	ctes repository.CteRepository,
	itens repository.ItemRepository,
	logs repository.ImportLogRepository,
	clientes repository.ClienteGeoRepository,
	pesos *peso.Resolver,
	cache CacheInvalidator,
	geo GeoSignaler,
	batchSize int,
	log *logger.Logger,
) *UseCase {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &UseCase{
		nfes:      nfes,
		ctes:      ctes,
		itens:     itens,
		logs:      logs,
		clientes:  clientes,
		pesos:     pesos,
		cache:     cache,
		geo:       geo,
		batchSize: batchSize,
		log:       log,
	}
}

// ProcessFiles importa um conjunto de arquivos do tipo dado ("nfe" | "cte").
// Erro só é devolvido por falha de infraestrutura (banco indisponível);
// falhas de documento individuais vão para o ImportLog e são contadas no
// Resultado.
func (uc *UseCase) ProcessFiles(ctx context.Context, tipo string, arquivos []Arquivo) (*Resultado, error) {
	switch tipo {
	case TipoNFe, TipoCte:
	default:
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, tipo)
	}

	res := &Resultado{}
	var pendLog []*entity.ImportLog

	docs := make([]fiscalxml.Documento, 0, len(arquivos))
	for _, a := range arquivos {
		exp, err := fiscalxml.ExpandirArquivo(a.Nome, a.Conteudo)
		if err != nil {
			res.Falhas++
			pendLog = append(pendLog, uc.logEntry(a.Nome, tipo, entity.LogStatusErroFatal, err.Error()))
			continue
		}
		docs = append(docs, exp...)
	}
	res.Documentos = len(docs)

	var err error
	if tipo == TipoNFe {
		err = uc.processarNfes(ctx, docs, res, &pendLog)
	} else {
		err = uc.processarCtes(ctx, docs, res, &pendLog)
	}
	if err != nil {
		return res, err
	}

	if len(pendLog) > 0 {
		if logErr := uc.logs.BulkInsert(ctx, pendLog); logErr != nil {
			uc.log.Error().Err(logErr).Msg("gravar log de importação")
		}
	}

	uc.log.Info().
		Str("tipo", tipo).
		Int("documentos", res.Documentos).
		Int("nfe", res.NfeInseridas).
		Int("cte", res.CteInseridos).
		Int("itens", res.Itens).
		Int("falhas", res.Falhas).
		Int("ignorados", res.Ignorados).
		Int("órfãos", res.Orfaos).
		Msg("ingestão concluída")
	return res, nil
}

func (uc *UseCase) processarNfes(ctx context.Context, docs []fiscalxml.Documento, res *Resultado, pendLog *[]*entity.ImportLog) error {
	var loteNfe []*entity.Nfe
	var loteItens []*entity.Item

	flush := func() error {
		if len(loteNfe) == 0 {
			return nil
		}
		n, err := uc.nfes.BulkInsert(ctx, loteNfe)
		if err != nil {
			return fmt.Errorf("gravar lote de nfe: %w", err)
		}
		ni, err := uc.itens.BulkInsert(ctx, loteItens)
		if err != nil {
			return fmt.Errorf("gravar lote de itens: %w", err)
		}
		res.NfeInseridas += n
		res.Itens += ni
		loteNfe = loteNfe[:0]
		loteItens = loteItens[:0]
		uc.afterFlush()
		return nil
	}

	for _, doc := range docs {
		header, itens, err := fiscalxml.ParseNFe(doc.Conteudo, doc.Nome)
		if err != nil {
			res.Falhas++
			*pendLog = append(*pendLog, uc.logEntry(doc.Nome, "NF-e", entity.LogStatusErro, err.Error()))
			continue
		}

		loteNfe = append(loteNfe, header)
		loteItens = append(loteItens, itens...)
		uc.registrarCliente(ctx, header)

		if len(loteNfe) >= uc.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	// Resolve os pesos dos itens recém-gravados (os que ficaram com peso
	// nulo no insert).
	if uc.pesos != nil {
		resolvidos, err := uc.pesos.ResolvePendentes(ctx, uc.batchSize)
		if err != nil {
			uc.log.Error().Err(err).Msg("resolver pesos pendentes")
		}
		res.PesosResolvidos = resolvidos
	}
	return nil
}

func (uc *UseCase) processarCtes(ctx context.Context, docs []fiscalxml.Documento, res *Resultado, pendLog *[]*entity.ImportLog) error {
	var lote []*entity.Cte

	flush := func() error {
		if len(lote) == 0 {
			return nil
		}
		n, err := uc.ctes.BulkInsert(ctx, lote)
		if err != nil {
			return fmt.Errorf("gravar lote de cte: %w", err)
		}
		res.CteInseridos += n
		lote = lote[:0]
		uc.afterFlush()
		return nil
	}

	for _, doc := range docs {
		registros, err := fiscalxml.ParseCte(doc.Conteudo, doc.Nome)
		if err != nil {
			if errors.Is(err, domain.ErrVarianteNaoSuportada) {
				res.Ignorados++
				*pendLog = append(*pendLog, uc.logEntry(doc.Nome, "CT-e", entity.LogStatusIgnorado, err.Error()))
			} else {
				res.Falhas++
				*pendLog = append(*pendLog, uc.logEntry(doc.Nome, "CT-e", entity.LogStatusErro, err.Error()))
			}
			continue
		}

		for _, r := range registros {
			if r.ChaveNF == "" {
				// Frete órfão: persiste mesmo assim, mas deixa rastro.
				res.Orfaos++
				*pendLog = append(*pendLog, uc.logEntry(doc.Nome, "CT-e", entity.LogStatusOrfao,
					fmt.Sprintf("CT-e %s sem nota referenciada", r.ChaveCte)))
			}
		}

		lote = append(lote, registros...)
		if len(lote) >= uc.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// registrarCliente garante o destinatário na fila de geocodificação.
// Falha aqui não derruba a ingestão da nota.
func (uc *UseCase) registrarCliente(ctx context.Context, n *entity.Nfe) {
	cnpj := fiscal.LimparCNPJ(n.CNPJDest)
	if cnpj == "" {
		return
	}
	cliente := &entity.ClienteGeo{
		CNPJ:   cnpj,
		Nome:   n.Destinatario,
		Cidade: n.CidadeDestino,
		UF:     n.UFDest,
		CEP:    n.CEPDestino,
	}
	if err := uc.clientes.EnsurePendente(ctx, cliente); err != nil {
		uc.log.Warn().Err(err).Str("cnpj", cnpj).Msg("registrar cliente para geocodificação")
	}
}

// afterFlush invalida a tabela analítica e acorda o worker de rotas.
func (uc *UseCase) afterFlush() {
	if uc.cache != nil {
		uc.cache.InvalidateCache()
	}
	if uc.geo != nil {
		uc.geo.Signal()
	}
}

func (uc *UseCase) logEntry(arquivo, tipoDoc, status, msg string) *entity.ImportLog {
	return &entity.ImportLog{
		ID:       uuid.NewString(),
		DataHora: time.Now(),
		Arquivo:  arquivo,
		TipoDoc:  tipoDoc,
		Status:   status,
		Mensagem: msg,
	}
}
