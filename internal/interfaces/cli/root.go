// Package cli define a interface de linha de comando do leitor-fiscal.
// Cada comando monta sozinho as dependências de que precisa; comandos que
// não tocam o banco (version) não abrem conexão.
package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/leitor-fiscal/internal/application/dto"
	appgeo "github.com/jhoicas/leitor-fiscal/internal/application/geo"
	"github.com/jhoicas/leitor-fiscal/internal/application/ingest"
	"github.com/jhoicas/leitor-fiscal/internal/application/peso"
	"github.com/jhoicas/leitor-fiscal/internal/application/report"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
	"github.com/jhoicas/leitor-fiscal/internal/infrastructure/cache"
	infrageo "github.com/jhoicas/leitor-fiscal/internal/infrastructure/geo"
	"github.com/jhoicas/leitor-fiscal/internal/infrastructure/postgres"
	"github.com/jhoicas/leitor-fiscal/pkg/config"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
	"github.com/spf13/cobra"
)

// New monta a árvore de comandos.
func New(cfg *config.Config, log *logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "leitor",
		Short:         "Importa NF-e e CT-e e concilia o frete por nota",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newIngestCmd(cfg, log),
		newReportCmd(cfg, log),
		newGeoWorkerCmd(cfg, log),
		newPesoCmd(cfg, log),
		newLogsCmd(cfg, log),
		newVersionCmd(),
	)
	return root
}

// app reúne as dependências já conectadas de um comando.
type app struct {
	pool   *pgxpool.Pool
	ingest *ingest.UseCase
	report *report.UseCase
	pesos  *peso.Resolver
	worker *appgeo.Worker
	logs   repository.ImportLogRepository
}

// buildApp conecta o banco e liga o grafo completo de casos de uso.
// O chamador fecha o pool via app.close().
func buildApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conectar ao banco: %w", err)
	}

	nfes := postgres.NewNfeRepository(pool)
	ctes := postgres.NewCteRepository(pool)
	itens := postgres.NewItemRepository(pool)
	logs := postgres.NewImportLogRepository(pool)
	clientes := postgres.NewClienteGeoRepository(pool)
	produtoPesos := postgres.NewProdutoPesoRepository(pool)
	analytics := postgres.NewAnalyticsRepository(pool)

	resolver := peso.NewResolver(produtoPesos, itens, log)

	tabelaCache := cache.NewTTL[[]dto.LinhaAnalitica](cfg.Cache.TTL)
	reportUC := report.NewUseCase(analytics, itens, tabelaCache, report.Config{
		CNPJsProprios: cfg.Empresa.CNPJs,
		Aliases:       cfg.Empresa.Aliases,
	}, log)

	worker := appgeo.NewWorker(clientes, nfes,
		infrageo.NewNominatimClient(cfg.Geo.NominatimURL, cfg.Geo.Timeout),
		infrageo.NewOSRMClient(cfg.Geo.OSRMURL, cfg.Geo.Timeout),
		appgeo.WorkerConfig{
			OrigemEndereco: cfg.Geo.OrigemEndereco,
			Pausa:          cfg.Geo.Pausa,
			Timeout:        cfg.Geo.Timeout,
			Intervalo:      cfg.Geo.Intervalo,
		}, log)

	ingestUC := ingest.NewUseCase(nfes, ctes, itens, logs, clientes,
		resolver, reportUC, worker, cfg.Ingest.BatchSize, log)

	return &app{
		pool:   pool,
		ingest: ingestUC,
		report: reportUC,
		pesos:  resolver,
		worker: worker,
		logs:   logs,
	}, nil
}

func (a *app) close() {
	a.pool.Close()
}
