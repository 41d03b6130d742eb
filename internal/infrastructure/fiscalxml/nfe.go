package fiscalxml

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/jhoicas/leitor-fiscal/internal/domain"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/fiscal"
)

const (
	nfePrefixoID       = "NFe"
	produtoSemNome     = "PRODUTO SEM NOME"
	transpPadrao       = "Próprio/Outros"
	dataEmissaoLayout  = "2006-01-02"
	modFreteSemRegisto = "9"
)

// ParseNFe extrai o cabeçalho e os itens de uma NF-e. Erro devolvido só
// quando o documento é irrecuperável (XML inválido ou chave de acesso
// ausente/inválida); qualquer campo individual ausente vira default e o
// documento segue. O chamador registra o erro no ImportLog e continua o lote.
func ParseNFe(raw []byte, arquivo string) (*entity.Nfe, []*entity.Item, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrDocumentoMalformado, err)
	}

	// Aceita nfeProc (processo completo) ou NFe direto na raiz.
	inf := doc.FindElement("//infNFe")
	if inf == nil {
		return nil, nil, fmt.Errorf("%w: infNFe ausente", domain.ErrDocumentoMalformado)
	}

	chave := strings.TrimSpace(strings.TrimPrefix(inf.SelectAttrValue("Id", ""), nfePrefixoID))
	if !fiscal.ChaveValida(chave) {
		return nil, nil, fmt.Errorf("%w: chave de acesso inválida %q", domain.ErrDocumentoMalformado, chave)
	}

	header := &entity.Nfe{
		ChaveNF:        chave,
		Data:           parseDataEmissao(inf),
		NumeroNF:       text(inf, "ide/nNF"),
		Emitente:       text(inf, "emit/xNome"),
		CNPJEmit:       fiscal.LimparCNPJ(text(inf, "emit/CNPJ")),
		Destinatario:   text(inf, "dest/xNome"),
		CNPJDest:       fiscal.LimparCNPJ(text(inf, "dest/CNPJ", "dest/CPF")),
		UFDest:         text(inf, "dest/enderDest/UF"),
		ValorNF:        num(inf, "total/ICMSTot/vNF"),
		PesoBruto:      sumNum(inf, "transp/vol/pesoB"),
		Transportadora: textDefault(inf, transpPadrao, "transp/transporta/xNome"),
		CidadeOrigem:   text(inf, "emit/enderEmit/xMun"),
		CidadeDestino:  text(inf, "dest/enderDest/xMun"),
		ModFrete:       textDefault(inf, modFreteSemRegisto, "transp/modFrete"),
		TipoOperacao:   textDefault(inf, "1", "ide/tpNF"),
		QtdItens:       len(inf.FindElements("det")),
		CEPOrigem:      text(inf, "emit/enderEmit/CEP"),
		CEPDestino:     text(inf, "dest/enderDest/CEP"),
		Arquivo:        arquivo,
	}

	return header, parseItens(inf, header, arquivo), nil
}

// parseDataEmissao prefere dhEmi (timestamp completo) com fallback a dEmi
// (somente data), truncando ao componente de data. Data não interpretável
// devolve nil — o documento ainda é armazenado.
func parseDataEmissao(inf *etree.Element) *time.Time {
	raw := text(inf, "ide/dhEmi", "ide/dEmi")
	if len(raw) > 10 {
		raw = raw[:10]
	}
	t, err := time.Parse(dataEmissaoLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

func parseItens(inf *etree.Element, header *entity.Nfe, arquivo string) []*entity.Item {
	var itens []*entity.Item
	for i, det := range inf.FindElements("det") {
		itemNum := strings.TrimSpace(det.SelectAttrValue("nItem", ""))
		if itemNum == "" {
			itemNum = strconv.Itoa(i + 1)
		}
		qtd := num(det, "prod/qCom")
		itens = append(itens, &entity.Item{
			ChaveNF:    header.ChaveNF,
			NumeroNF:   header.NumeroNF,
			Emitente:   header.Emitente,
			ItemNum:    itemNum,
			Produto:    textDefault(det, produtoSemNome, "prod/xProd", "prod/cProd"),
			NCM:        text(det, "prod/NCM"),
			CFOP:       text(det, "prod/CFOP"),
			Unidade:    text(det, "prod/uCom"),
			QtdDisplay: fiscal.BRNum(qtd),
			QtdFloat:   qtd,
			VlTotal:    num(det, "prod/vProd"),
			Arquivo:    arquivo,
		})
	}
	return itens
}
