package ingest_test

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/jhoicas/leitor-fiscal/internal/application/ingest"
	"github.com/jhoicas/leitor-fiscal/internal/application/peso"
	"github.com/jhoicas/leitor-fiscal/internal/domain"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória
// ──────────────────────────────────────────────────────────────────────────────

type fakeNfeRepo struct {
	inseridas []*entity.Nfe
	flushes   int
}

func (f *fakeNfeRepo) BulkInsert(_ context.Context, notas []*entity.Nfe) (int, error) {
	f.flushes++
	f.inseridas = append(f.inseridas, notas...)
	return len(notas), nil
}
func (f *fakeNfeRepo) GetByChave(context.Context, string) (*entity.Nfe, error) { return nil, nil }
func (f *fakeNfeRepo) All(context.Context) ([]*entity.Nfe, error)             { return f.inseridas, nil }
func (f *fakeNfeRepo) ListSemDistancia(context.Context, int) ([]*entity.Nfe, error) {
	return nil, nil
}
func (f *fakeNfeRepo) UpdateDistancia(context.Context, string, decimal.Decimal) error { return nil }

type fakeCteRepo struct {
	inseridos []*entity.Cte
}

func (f *fakeCteRepo) BulkInsert(_ context.Context, registros []*entity.Cte) (int, error) {
	f.inseridos = append(f.inseridos, registros...)
	return len(registros), nil
}
func (f *fakeCteRepo) All(context.Context) ([]*entity.Cte, error) { return f.inseridos, nil }

type fakeItemRepo struct {
	inseridos []*entity.Item
}

func (f *fakeItemRepo) BulkInsert(_ context.Context, itens []*entity.Item) (int, error) {
	f.inseridos = append(f.inseridos, itens...)
	return len(itens), nil
}
func (f *fakeItemRepo) ListByChaveNF(context.Context, string) ([]*entity.Item, error) {
	return nil, nil
}
func (f *fakeItemRepo) ListSemPeso(context.Context, int) ([]*entity.Item, error) { return nil, nil }
func (f *fakeItemRepo) UpdatePeso(context.Context, string, string, decimal.Decimal, decimal.Decimal) error {
	return nil
}

type fakeLogRepo struct {
	entradas []*entity.ImportLog
}

func (f *fakeLogRepo) BulkInsert(_ context.Context, logs []*entity.ImportLog) error {
	f.entradas = append(f.entradas, logs...)
	return nil
}
func (f *fakeLogRepo) ListRecent(context.Context, int) ([]*entity.ImportLog, error) {
	return f.entradas, nil
}

type fakeClienteRepo struct {
	pendentes []*entity.ClienteGeo
}

func (f *fakeClienteRepo) EnsurePendente(_ context.Context, c *entity.ClienteGeo) error {
	f.pendentes = append(f.pendentes, c)
	return nil
}
func (f *fakeClienteRepo) ListPendentes(context.Context, int) ([]*entity.ClienteGeo, error) {
	return nil, nil
}
func (f *fakeClienteRepo) SaveGeo(context.Context, *entity.ClienteGeo) error { return nil }
func (f *fakeClienteRepo) GetByCNPJ(context.Context, string) (*entity.ClienteGeo, error) {
	return nil, nil
}

type fakePesoRepo struct{}

func (fakePesoRepo) Get(context.Context, string) (*entity.ProdutoPeso, error) { return nil, nil }
func (fakePesoRepo) GetOrCreate(_ context.Context, p *entity.ProdutoPeso) (*entity.ProdutoPeso, error) {
	return p, nil
}
func (fakePesoRepo) SetManual(context.Context, string, decimal.Decimal) error { return nil }

type fakeNotificacoes struct {
	invalidacoes int
	sinais       int
}

func (f *fakeNotificacoes) InvalidateCache() { f.invalidacoes++ }
func (f *fakeNotificacoes) Signal()          { f.sinais++ }

type ambiente struct {
	nfes     *fakeNfeRepo
	ctes     *fakeCteRepo
	itens    *fakeItemRepo
	logs     *fakeLogRepo
	clientes *fakeClienteRepo
	notif    *fakeNotificacoes
	uc       *ingest.UseCase
}

func novoAmbiente(batchSize int) *ambiente {
	a := &ambiente{
		nfes:     &fakeNfeRepo{},
		ctes:     &fakeCteRepo{},
		itens:    &fakeItemRepo{},
		logs:     &fakeLogRepo{},
		clientes: &fakeClienteRepo{},
		notif:    &fakeNotificacoes{},
	}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	resolver := peso.NewResolver(fakePesoRepo{}, a.itens, log)
	a.uc = ingest.NewUseCase(a.nfes, a.ctes, a.itens, a.logs, a.clientes,
		resolver, a.notif, a.notif, batchSize, log)
	return a
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const (
	chaveA = "3523051234567800019555001" + "000012345" + "0000000001"
	chaveB = "3523051234567800019555001" + "000012346" + "0000000002"
)

func nfeXML(chave string) string {
	return `<NFe><infNFe Id="NFe` + chave + `">
	  <ide><nNF>1</nNF></ide>
	  <dest><CNPJ>99.999.999/0001-99</CNPJ><xNome>CLIENTE</xNome>
	    <enderDest><xMun>SALVADOR</xMun><UF>BA</UF><CEP>40000000</CEP></enderDest></dest>
	  <det nItem="1"><prod><xProd>SACO 25KG</xProd><qCom>2</qCom></prod></det>
	</infNFe></NFe>`
}

func cteOrfaoXML() string {
	return `<CTe><infCte Id="CTe` + chaveA + `">
	  <ide><nCT>9</nCT></ide>
	  <vPrest><vTPrest>100.00</vTPrest></vPrest>
	</infCte></CTe>`
}

// ──────────────────────────────────────────────────────────────────────────────
// Ingestão de NF-e
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessFiles_NFe(t *testing.T) {
	a := novoAmbiente(200)

	res, err := a.uc.ProcessFiles(context.Background(), ingest.TipoNFe, []ingest.Arquivo{
		{Nome: "a.xml", Conteudo: []byte(nfeXML(chaveA))},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Documentos)
	assert.Equal(t, 1, res.NfeInseridas)
	assert.Equal(t, 1, res.Itens)
	assert.Zero(t, res.Falhas)

	require.Len(t, a.clientes.pendentes, 1)
	assert.Equal(t, "99999999000199", a.clientes.pendentes[0].CNPJ,
		"destinatário entra na fila de geocodificação com CNPJ limpo")
	assert.Equal(t, 1, a.notif.invalidacoes, "flush invalida a tabela analítica")
	assert.Equal(t, 1, a.notif.sinais, "flush acorda o worker de rotas")
}

// Um documento irrecuperável vira log e o resto do lote segue.
func TestProcessFiles_DocumentoRuimNaoAbortaOLote(t *testing.T) {
	a := novoAmbiente(200)

	res, err := a.uc.ProcessFiles(context.Background(), ingest.TipoNFe, []ingest.Arquivo{
		{Nome: "ruim.xml", Conteudo: []byte(`<NFe><infNFe Id="NFe123"/></NFe>`)},
		{Nome: "boa.xml", Conteudo: []byte(nfeXML(chaveA))},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.NfeInseridas)
	assert.Equal(t, 1, res.Falhas)
	require.Len(t, a.logs.entradas, 1)
	assert.Equal(t, entity.LogStatusErro, a.logs.entradas[0].Status)
	assert.Equal(t, "ruim.xml", a.logs.entradas[0].Arquivo)
}

func TestProcessFiles_FlushPorLote(t *testing.T) {
	a := novoAmbiente(1)

	res, err := a.uc.ProcessFiles(context.Background(), ingest.TipoNFe, []ingest.Arquivo{
		{Nome: "a.xml", Conteudo: []byte(nfeXML(chaveA))},
		{Nome: "b.xml", Conteudo: []byte(nfeXML(chaveB))},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.NfeInseridas)
	assert.Equal(t, 2, a.nfes.flushes, "tamanho de lote 1 força um flush por nota")
	assert.Equal(t, 2, a.notif.invalidacoes)
}

func TestProcessFiles_ZipExpandido(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for nome, conteudo := range map[string]string{
		"a.xml": nfeXML(chaveA),
		"b.xml": nfeXML(chaveB),
	} {
		w, err := zw.Create(nome)
		require.NoError(t, err)
		_, err = w.Write([]byte(conteudo))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	a := novoAmbiente(200)
	res, err := a.uc.ProcessFiles(context.Background(), ingest.TipoNFe, []ingest.Arquivo{
		{Nome: "lote.zip", Conteudo: buf.Bytes()},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Documentos)
	assert.Equal(t, 2, res.NfeInseridas)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ingestão de CT-e
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessFiles_CteOrfaoPersisteComRastro(t *testing.T) {
	a := novoAmbiente(200)

	res, err := a.uc.ProcessFiles(context.Background(), ingest.TipoCte, []ingest.Arquivo{
		{Nome: "orfao.xml", Conteudo: []byte(cteOrfaoXML())},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.CteInseridos, "o órfão é persistido")
	assert.Equal(t, 1, res.Orfaos)
	require.Len(t, a.logs.entradas, 1)
	assert.Equal(t, entity.LogStatusOrfao, a.logs.entradas[0].Status)
}

func TestProcessFiles_EventoCteIgnorado(t *testing.T) {
	a := novoAmbiente(200)

	res, err := a.uc.ProcessFiles(context.Background(), ingest.TipoCte, []ingest.Arquivo{
		{Nome: "evento.xml", Conteudo: []byte(`<procEventoCTe><retEventoCTe/></procEventoCTe>`)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Ignorados)
	assert.Zero(t, res.Falhas, "evento é classificação, não falha")
	assert.Empty(t, a.ctes.inseridos)
	require.Len(t, a.logs.entradas, 1)
	assert.Equal(t, entity.LogStatusIgnorado, a.logs.entradas[0].Status)
}

func TestProcessFiles_TipoInvalido(t *testing.T) {
	a := novoAmbiente(200)

	_, err := a.uc.ProcessFiles(context.Background(), "boleto", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
