package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/repository"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
)

const loteWorker = 50

// WorkerConfig parâmetros do worker de geocodificação.
type WorkerConfig struct {
	// OrigemEndereco endereço de origem da companhia (CEP ou endereço
	// completo); base do cálculo de distância de todas as notas.
	OrigemEndereco string
	// Pausa entre chamadas consecutivas aos provedores externos (política
	// de uso do Nominatim público).
	Pausa time.Duration
	// Timeout de cada chamada externa individual.
	Timeout time.Duration
	// Intervalo entre varreduras quando não há sinal de ingestão.
	Intervalo time.Duration
}

// Worker varre clientes pendentes e notas sem distância, resolvendo
// coordenadas e rotas contra os provedores externos. Falhas deixam o
// registro pendente para a próxima passada; o worker nunca aborta por erro
// de um registro.
type Worker struct {
	clientes repository.ClienteGeoRepository
	nfes     repository.NfeRepository
	geocoder Geocoder
	router   Router
	cfg      WorkerConfig
	log      *logger.Logger

	wake chan struct{}

	// Coordenadas da origem, resolvidas preguiçosamente na primeira
	// varredura e reutilizadas depois.
	origemLat, origemLon float64
	origemOK             bool
}

// NewWorker constrói o worker.
func NewWorker(
	clientes repository.ClienteGeoRepository,
	nfes repository.NfeRepository,
	geocoder Geocoder,
	router Router,
	cfg WorkerConfig,
	log *logger.Logger,
) *Worker {
	if cfg.Intervalo <= 0 {
		cfg.Intervalo = 5 * time.Minute
	}
	return &Worker{
		clientes: clientes,
		nfes:     nfes,
		geocoder: geocoder,
		router:   router,
		cfg:      cfg,
		log:      log,
		wake:     make(chan struct{}, 1),
	}
}

// Signal acorda o worker para uma varredura imediata. Nunca bloqueia: se já
// houver um sinal enfileirado, o novo é colapsado nele.
func (w *Worker) Signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run executa o laço do worker até o cancelamento do contexto: varre ao
// acordar por sinal de ingestão ou pelo intervalo de polling.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().
		Dur("intervalo", w.cfg.Intervalo).
		Dur("pausa", w.cfg.Pausa).
		Msg("worker de geocodificação iniciado")

	ticker := time.NewTicker(w.cfg.Intervalo)
	defer ticker.Stop()

	// Primeira varredura imediata.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker de geocodificação encerrado")
			return ctx.Err()
		case <-w.wake:
			w.sweep(ctx)
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep executa uma varredura completa: clientes pendentes primeiro, depois
// distâncias de notas (que dependem dos clientes já resolvidos).
func (w *Worker) sweep(ctx context.Context) {
	if err := w.resolverOrigem(ctx); err != nil {
		w.log.Warn().Err(err).Msg("origem não resolvida; varredura adiada")
		return
	}
	w.resolverClientes(ctx)
	w.resolverDistancias(ctx)
}

// resolverOrigem geocodifica o endereço de origem uma única vez.
func (w *Worker) resolverOrigem(ctx context.Context) error {
	if w.origemOK {
		return nil
	}
	if w.cfg.OrigemEndereco == "" {
		return fmt.Errorf("endereço de origem não configurado")
	}
	lat, lon, err := w.geocode(ctx, w.cfg.OrigemEndereco)
	if err != nil {
		return fmt.Errorf("geocodificar origem: %w", err)
	}
	w.origemLat, w.origemLon = lat, lon
	w.origemOK = true
	w.log.Info().
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("origem geocodificada")
	return nil
}

// resolverClientes geocodifica os clientes pendentes e calcula a distância
// de rota deles até a origem.
func (w *Worker) resolverClientes(ctx context.Context) {
	for {
		pendentes, err := w.clientes.ListPendentes(ctx, loteWorker)
		if err != nil {
			w.log.Error().Err(err).Msg("listar clientes pendentes")
			return
		}
		if len(pendentes) == 0 {
			return
		}

		resolvidos := 0
		for _, c := range pendentes {
			if ctx.Err() != nil {
				return
			}
			if err := w.resolverCliente(ctx, c); err != nil {
				w.log.Warn().
					Err(err).
					Str("cnpj", c.CNPJ).
					Str("cidade", c.Cidade).
					Msg("cliente segue pendente")
				continue
			}
			resolvidos++
		}
		w.log.Info().
			Int("pendentes", len(pendentes)).
			Int("resolvidos", resolvidos).
			Msg("lote de clientes processado")

		// Nenhum progresso no lote: parar em vez de martelar os provedores
		// com os mesmos registros.
		if resolvidos == 0 {
			return
		}
	}
}

func (w *Worker) resolverCliente(ctx context.Context, c *entity.ClienteGeo) error {
	lat, lon, err := w.geocode(ctx, enderecoCliente(c))
	if err != nil {
		return err
	}

	km, err := w.distancia(ctx, w.origemLat, w.origemLon, lat, lon)
	if err != nil {
		return err
	}

	c.Latitude = decimal.NewFromFloat(lat)
	c.Longitude = decimal.NewFromFloat(lon)
	c.Distancia = decimal.NewFromFloat(km).Round(1)
	c.Geocodificado = true
	c.UpdatedAt = time.Now()
	if err := w.clientes.SaveGeo(ctx, c); err != nil {
		return fmt.Errorf("gravar geo do cliente %s: %w", c.CNPJ, err)
	}
	return nil
}

// resolverDistancias propaga a distância do cliente já geocodificado para as
// notas que ainda não a têm.
func (w *Worker) resolverDistancias(ctx context.Context) {
	for {
		notas, err := w.nfes.ListSemDistancia(ctx, loteWorker)
		if err != nil {
			w.log.Error().Err(err).Msg("listar notas sem distância")
			return
		}
		if len(notas) == 0 {
			return
		}

		atualizadas := 0
		for _, n := range notas {
			if ctx.Err() != nil {
				return
			}
			cliente, err := w.clientes.GetByCNPJ(ctx, n.CNPJDest)
			if err != nil {
				w.log.Error().Err(err).Str("cnpj", n.CNPJDest).Msg("consultar cliente")
				continue
			}
			if cliente == nil || !cliente.Geocodificado {
				// Cliente ainda pendente; a nota espera a próxima varredura.
				continue
			}
			if err := w.nfes.UpdateDistancia(ctx, n.ChaveNF, cliente.Distancia); err != nil {
				w.log.Error().Err(err).Str("chave_nf", n.ChaveNF).Msg("gravar distância")
				continue
			}
			atualizadas++
		}
		if atualizadas == 0 {
			return
		}
	}
}

// geocode aplica timeout por chamada e a pausa de cortesia entre chamadas.
func (w *Worker) geocode(ctx context.Context, endereco string) (float64, float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()
	lat, lon, err := w.geocoder.Geocode(callCtx, endereco)
	w.pause(ctx)
	return lat, lon, err
}

func (w *Worker) distancia(ctx context.Context, lat1, lon1, lat2, lon2 float64) (float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()
	km, err := w.router.Distancia(callCtx, lat1, lon1, lat2, lon2)
	w.pause(ctx)
	return km, err
}

func (w *Worker) pause(ctx context.Context) {
	if w.cfg.Pausa <= 0 {
		return
	}
	select {
	case <-time.After(w.cfg.Pausa):
	case <-ctx.Done():
	}
}

// enderecoCliente monta a consulta de geocodificação com o que o cadastro
// tiver, do mais específico ao mais genérico.
func enderecoCliente(c *entity.ClienteGeo) string {
	partes := make([]string, 0, 4)
	if c.CEP != "" {
		partes = append(partes, c.CEP)
	}
	if c.Endereco != "" {
		partes = append(partes, c.Endereco)
	}
	if c.Cidade != "" {
		partes = append(partes, c.Cidade)
	}
	if c.UF != "" {
		partes = append(partes, c.UF)
	}
	return strings.Join(partes, ", ")
}
