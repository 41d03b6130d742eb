package fiscalxml_test

import (
	"testing"

	"github.com/jhoicas/leitor-fiscal/internal/domain"
	"github.com/jhoicas/leitor-fiscal/internal/infrastructure/fiscalxml"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Chave de 44 dígitos com número de nota 12345 nas posições 25..34.
const chaveNFe = "3523051234567800019555001" + "000012345" + "0000000001"

const nfeCompleta = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">
  <NFe>
    <infNFe Id="NFe` + chaveNFe + `" versao="4.00">
      <ide><nNF>12345</nNF><dhEmi>2025-03-17T10:30:00-03:00</dhEmi><tpNF>1</tpNF></ide>
      <emit>
        <CNPJ>11.111.111/0001-00</CNPJ><xNome>EMITENTE LTDA</xNome>
        <enderEmit><xMun>CAMPINAS</xMun><CEP>13000000</CEP></enderEmit>
      </emit>
      <dest>
        <CNPJ>99999999000199</CNPJ><xNome>DESTINATARIO SA</xNome>
        <enderDest><xMun>SALVADOR</xMun><UF>BA</UF><CEP>40000000</CEP></enderDest>
      </dest>
      <det nItem="1">
        <prod>
          <cProd>P1</cProd><xProd>FARINHA SACO 25KG</xProd><NCM>11010010</NCM>
          <CFOP>5102</CFOP><uCom>SC</uCom><qCom>10.0000</qCom><vProd>500.00</vProd>
        </prod>
      </det>
      <det nItem="2">
        <prod><cProd>P2</cProd><qCom>2</qCom><vProd>100.00</vProd></prod>
      </det>
      <total><ICMSTot><vNF>600.00</vNF></ICMSTot></total>
      <transp>
        <modFrete>0</modFrete>
        <transporta><xNome>TRANSP X</xNome></transporta>
        <vol><pesoB>120.500</pesoB></vol>
        <vol><pesoB>79.500</pesoB></vol>
      </transp>
    </infNFe>
  </NFe>
</nfeProc>`

func TestParseNFe_CabecalhoCompleto(t *testing.T) {
	header, itens, err := fiscalxml.ParseNFe([]byte(nfeCompleta), "nota.xml")
	require.NoError(t, err)

	assert.Equal(t, chaveNFe, header.ChaveNF)
	require.NotNil(t, header.Data)
	assert.Equal(t, "2025-03-17", header.Data.Format("2006-01-02"))
	assert.Equal(t, "12345", header.NumeroNF)
	assert.Equal(t, "EMITENTE LTDA", header.Emitente)
	assert.Equal(t, "11111111000100", header.CNPJEmit, "CNPJ sem pontuação")
	assert.Equal(t, "99999999000199", header.CNPJDest)
	assert.Equal(t, "BA", header.UFDest)
	assert.True(t, header.ValorNF.Equal(decimal.RequireFromString("600.00")))
	assert.True(t, header.PesoBruto.Equal(decimal.RequireFromString("200")),
		"peso bruto soma todos os volumes")
	assert.Equal(t, "TRANSP X", header.Transportadora)
	assert.Equal(t, "CAMPINAS", header.CidadeOrigem)
	assert.Equal(t, "SALVADOR", header.CidadeDestino)
	assert.Equal(t, "0", header.ModFrete)
	assert.Equal(t, 2, header.QtdItens)
	assert.Equal(t, "13000000", header.CEPOrigem)
	assert.Equal(t, "40000000", header.CEPDestino)
	assert.Equal(t, "nota.xml", header.Arquivo)
	assert.Len(t, itens, 2)
}

func TestParseNFe_Itens(t *testing.T) {
	_, itens, err := fiscalxml.ParseNFe([]byte(nfeCompleta), "nota.xml")
	require.NoError(t, err)
	require.Len(t, itens, 2)

	i1 := itens[0]
	assert.Equal(t, "1", i1.ItemNum)
	assert.Equal(t, "FARINHA SACO 25KG", i1.Produto)
	assert.Equal(t, "11010010", i1.NCM)
	assert.Equal(t, "5102", i1.CFOP)
	assert.Equal(t, "SC", i1.Unidade)
	assert.True(t, i1.QtdFloat.Equal(decimal.NewFromInt(10)))
	assert.True(t, i1.VlTotal.Equal(decimal.RequireFromString("500.00")))
	assert.Equal(t, chaveNFe, i1.ChaveNF)

	// Sem xProd o código do produto serve de nome.
	assert.Equal(t, "P2", itens[1].Produto)
}

func TestParseNFe_DefaultsQuandoCamposAusentes(t *testing.T) {
	minima := `<NFe><infNFe Id="NFe` + chaveNFe + `"><ide><nNF>1</nNF></ide></infNFe></NFe>`

	header, itens, err := fiscalxml.ParseNFe([]byte(minima), "minima.xml")
	require.NoError(t, err)

	assert.Nil(t, header.Data, "data ausente fica nula, o documento segue")
	assert.Equal(t, "Próprio/Outros", header.Transportadora)
	assert.Equal(t, "9", header.ModFrete)
	assert.True(t, header.ValorNF.IsZero())
	assert.True(t, header.PesoBruto.IsZero())
	assert.Empty(t, itens)
}

func TestParseNFe_DataSomenteDEmi(t *testing.T) {
	xml := `<NFe><infNFe Id="NFe` + chaveNFe + `"><ide><dEmi>2024-12-01</dEmi></ide></infNFe></NFe>`

	header, _, err := fiscalxml.ParseNFe([]byte(xml), "a.xml")
	require.NoError(t, err)
	require.NotNil(t, header.Data)
	assert.Equal(t, "2024-12-01", header.Data.Format("2006-01-02"))
}

// Item sem atributo nItem recebe o índice posicional.
func TestParseNFe_ItemSemNItemUsaPosicao(t *testing.T) {
	xml := `<NFe><infNFe Id="NFe` + chaveNFe + `">
	  <det><prod><xProd>A</xProd></prod></det>
	  <det><prod><xProd>B</xProd></prod></det>
	</infNFe></NFe>`

	_, itens, err := fiscalxml.ParseNFe([]byte(xml), "a.xml")
	require.NoError(t, err)
	require.Len(t, itens, 2)
	assert.Equal(t, "1", itens[0].ItemNum)
	assert.Equal(t, "2", itens[1].ItemNum)
}

func TestParseNFe_ChaveInvalida(t *testing.T) {
	xml := `<NFe><infNFe Id="NFe123"><ide><nNF>1</nNF></ide></infNFe></NFe>`

	_, _, err := fiscalxml.ParseNFe([]byte(xml), "a.xml")
	assert.ErrorIs(t, err, domain.ErrDocumentoMalformado)
}

func TestParseNFe_SemInfNFe(t *testing.T) {
	_, _, err := fiscalxml.ParseNFe([]byte(`<outro/>`), "a.xml")
	assert.ErrorIs(t, err, domain.ErrDocumentoMalformado)
}

// Emissores legados declaram ISO-8859-1; o leitor de charset converte para
// UTF-8 antes do parse.
func TestParseNFe_EncodingLatin1(t *testing.T) {
	xml := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<NFe><infNFe Id=\"NFe" + chaveNFe + "\">" +
		"<emit><xNome>A\xc7OUGUE S\xc3O JO\xc3O</xNome></emit>" +
		"</infNFe></NFe>"

	header, _, err := fiscalxml.ParseNFe([]byte(xml), "latin1.xml")
	require.NoError(t, err)
	assert.Equal(t, "AÇOUGUE SÃO JOÃO", header.Emitente)
}
