package fiscalxml_test

import (
	"testing"

	"github.com/jhoicas/leitor-fiscal/internal/domain"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/infrastructure/fiscalxml"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chaveCte = "3525025555555500010457001" + "000004567" + "0000000011"
	// Chaves de NF-e referenciadas, com números 12345 e 678 nas posições 25..34.
	chaveRef1 = "3523051234567800019555001" + "000012345" + "0000000001"
	chaveRef2 = "3523051234567800019555001" + "000000678" + "0000000002"
)

const cteDuasNotas = `<?xml version="1.0" encoding="UTF-8"?>
<cteProc xmlns="http://www.portalfiscal.inf.br/cte" versao="3.00">
  <CTe>
    <infCte Id="CTe` + chaveCte + `" versao="3.00">
      <ide>
        <nCT>4567</nCT><tpCTe>0</tpCTe><dhEmi>2025-02-10T08:00:00-03:00</dhEmi>
        <xMunIni>CAMPINAS</xMunIni><UFIni>SP</UFIni>
        <xMunFim>SALVADOR</xMunFim><UFFim>BA</UFFim>
      </ide>
      <emit><CNPJ>33333333000133</CNPJ><xNome>TRANSP REAL</xNome></emit>
      <rem><xNome>REMETENTE LTDA</xNome></rem>
      <dest><xNome>DESTINATARIO SA</xNome></dest>
      <vPrest>
        <vTPrest>300.00</vTPrest>
        <Comp><xNome>FRETE PESO</xNome><vComp>260.00</vComp></Comp>
        <Comp><xNome>PEDAGIO</xNome><vComp>40.00</vComp></Comp>
      </vPrest>
      <infCTeNorm>
        <infCarga><infQ><qCarga>200.0000</qCarga></infQ></infCarga>
        <infDoc>
          <infNFe><chave>` + chaveRef1 + `</chave></infNFe>
          <infNFe><chave>` + chaveRef2 + `</chave></infNFe>
        </infDoc>
      </infCTeNorm>
    </infCte>
  </CTe>
</cteProc>`

// Um CT-e cobrindo N notas vira N registros, todos com o mesmo valor total
// de frete: o valor é do grupo, nunca somado entre registros.
func TestParseCte_FanOutPorNotaReferenciada(t *testing.T) {
	registros, err := fiscalxml.ParseCte([]byte(cteDuasNotas), "cte.xml")
	require.NoError(t, err)
	require.Len(t, registros, 2)

	for _, r := range registros {
		assert.Equal(t, chaveCte, r.ChaveCte)
		assert.Equal(t, "4567", r.NumeroCte)
		assert.Equal(t, "TRANSP REAL", r.Emitente)
		assert.Equal(t, "33333333000133", r.CNPJEmit)
		assert.True(t, r.FreteValor.Equal(decimal.RequireFromString("300.00")))
		assert.True(t, r.PesoKg.Equal(decimal.NewFromInt(200)))
		assert.True(t, r.PedagioValor.Equal(decimal.RequireFromString("40.00")))
		assert.Equal(t, "CAMPINAS-SP", r.CidadeOrigem)
		assert.Equal(t, "SALVADOR-BA", r.CidadeDestino)
		assert.Equal(t, entity.TpCteNormal, r.TpCte)
		assert.Equal(t, "cte.xml", r.Arquivo)
	}

	assert.Equal(t, chaveRef1, registros[0].ChaveNF)
	assert.Equal(t, "12345", registros[0].NumeroNFCte,
		"número da nota extraído da chave referenciada")
	assert.Equal(t, chaveRef2, registros[1].ChaveNF)
	assert.Equal(t, "678", registros[1].NumeroNFCte, "zeros à esquerda descartados")
}

// CT-e sem nota referenciada gera exatamente um registro órfão.
func TestParseCte_SemNotaGeraRegistroOrfao(t *testing.T) {
	xml := `<CTe><infCte Id="CTe` + chaveCte + `">
	  <ide><nCT>99</nCT></ide>
	  <vPrest><vTPrest>150.00</vTPrest></vPrest>
	</infCte></CTe>`

	registros, err := fiscalxml.ParseCte([]byte(xml), "orfao.xml")
	require.NoError(t, err)
	require.Len(t, registros, 1)
	assert.Empty(t, registros[0].ChaveNF)
	assert.Empty(t, registros[0].NumeroNFCte)
	assert.True(t, registros[0].FreteValor.Equal(decimal.RequireFromString("150.00")))
}

func TestParseCte_Complementar(t *testing.T) {
	xml := `<CTe><infCte Id="CTe` + chaveCte + `">
	  <ide><nCT>77</nCT><tpCTe>1</tpCTe></ide>
	  <vPrest><vTPrest>50.00</vTPrest></vPrest>
	  <infCteComp><chCTe>` + chaveRef1 + `</chCTe></infCteComp>
	</infCte></CTe>`

	registros, err := fiscalxml.ParseCte([]byte(xml), "comp.xml")
	require.NoError(t, err)
	require.Len(t, registros, 1)
	assert.Equal(t, entity.TpCteComplementar, registros[0].TpCte)
	assert.Equal(t, chaveRef1, registros[0].ChaveRefCte)
}

// Os componentes de pedágio são reconhecidos por substring (PEDAGIO ou VALE)
// e somados; os demais componentes ficam de fora.
func TestParseCte_ComponentesDePedagio(t *testing.T) {
	xml := `<CTe><infCte Id="CTe` + chaveCte + `">
	  <vPrest>
	    <vTPrest>500.00</vTPrest>
	    <Comp><xNome>FRETE VALOR</xNome><vComp>400.00</vComp></Comp>
	    <Comp><xNome>VALE PEDAGIO</xNome><vComp>60.00</vComp></Comp>
	    <Comp><xNome>Pedagio Eletronico</xNome><vComp>40.00</vComp></Comp>
	  </vPrest>
	</infCte></CTe>`

	registros, err := fiscalxml.ParseCte([]byte(xml), "ped.xml")
	require.NoError(t, err)
	require.Len(t, registros, 1)
	assert.True(t, registros[0].PedagioValor.Equal(decimal.NewFromInt(100)),
		"60 + 40, sem contar o componente de frete")
}

// Documento de evento (cancelamento, carta de correção) não é falha: é
// classificado como variante não suportada para o chamador ignorar.
func TestParseCte_EventoClassificadoComoVariante(t *testing.T) {
	xml := `<procEventoCTe><retEventoCTe><infEvento><cStat>135</cStat></infEvento></retEventoCTe></procEventoCTe>`

	_, err := fiscalxml.ParseCte([]byte(xml), "evento.xml")
	assert.ErrorIs(t, err, domain.ErrVarianteNaoSuportada)
	assert.NotErrorIs(t, err, domain.ErrDocumentoMalformado)
}

func TestParseCte_SemInfCte(t *testing.T) {
	_, err := fiscalxml.ParseCte([]byte(`<outro/>`), "a.xml")
	assert.ErrorIs(t, err, domain.ErrDocumentoMalformado)
}

func TestParseCte_TpCteAusenteAssumeNormal(t *testing.T) {
	xml := `<CTe><infCte Id="CTe` + chaveCte + `"><ide><nCT>1</nCT></ide></infCte></CTe>`

	registros, err := fiscalxml.ParseCte([]byte(xml), "a.xml")
	require.NoError(t, err)
	assert.Equal(t, entity.TpCteNormal, registros[0].TpCte)
}
