package fiscalxml

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/leitor-fiscal/internal/domain"
	"github.com/jhoicas/leitor-fiscal/internal/domain/entity"
	"github.com/jhoicas/leitor-fiscal/internal/domain/fiscal"
)

const (
	ctePrefixoID    = "CTe"
	cidadeND        = "ND" // origem/destino não disponível no documento
	pedagioMarcador = "PEDAGIO"
	valeMarcador    = "VALE"
)

// ParseCte extrai os registros de frete de um CT-e: um registro por NF-e
// referenciada, todos compartilhando o mesmo valor total de frete. CT-e sem
// nota referenciada gera exatamente um registro com ChaveNF vazia (frete
// órfão, mantido para diagnóstico). Documento de evento devolve zero
// registros com ErrVarianteNaoSuportada — classificação, não falha.
func ParseCte(raw []byte, arquivo string) ([]*entity.Cte, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentoMalformado, err)
	}

	inf := doc.FindElement("//infCte")
	if inf == nil {
		if doc.FindElement("//retEventoCTe") != nil {
			return nil, fmt.Errorf("%w: evento de CT-e", domain.ErrVarianteNaoSuportada)
		}
		return nil, fmt.Errorf("%w: infCte ausente", domain.ErrDocumentoMalformado)
	}

	chaveCte := strings.TrimSpace(strings.TrimPrefix(inf.SelectAttrValue("Id", ""), ctePrefixoID))
	data := parseDataEmissao(inf)

	frete := num(inf, ".//vTPrest")
	peso := sumNum(inf, ".//qCarga")

	// Pedágio/vale: soma por substring no nome do componente, não por código
	// exato — componentes com outra grafia podem escapar ou colidir.
	pedagio := decimal.Zero
	for _, comp := range inf.FindElements(".//Comp") {
		nome := strings.ToUpper(text(comp, "xNome"))
		if strings.Contains(nome, pedagioMarcador) || strings.Contains(nome, valeMarcador) {
			pedagio = pedagio.Add(num(comp, "vComp"))
		}
	}

	cidadeOrigem := cidadeND
	if mun := text(inf, "ide/xMunIni"); mun != "" {
		cidadeOrigem = mun + "-" + text(inf, "ide/UFIni")
	}
	cidadeDestino := cidadeND
	if mun := text(inf, "ide/xMunFim", "dest/enderDest/xMun"); mun != "" {
		cidadeDestino = mun + "-" + text(inf, "ide/UFFim", "dest/enderDest/UF")
	}

	// Fan-out: uma linha por chave de NF-e referenciada.
	var chaves []string
	for _, ref := range inf.FindElements(".//infNFe") {
		if chave := text(ref, "chave"); chave != "" {
			chaves = append(chaves, chave)
		}
	}
	if len(chaves) == 0 {
		chaves = []string{""}
	}

	base := entity.Cte{
		ChaveCte:      chaveCte,
		Data:          data,
		NumeroCte:     text(inf, "ide/nCT"),
		Emitente:      text(inf, "emit/xNome"),
		CNPJEmit:      fiscal.LimparCNPJ(text(inf, "emit/CNPJ")),
		Remetente:     text(inf, "rem/xNome"),
		Destinatario:  text(inf, "dest/xNome"),
		FreteValor:    frete,
		PesoKg:        peso,
		CidadeOrigem:  cidadeOrigem,
		CidadeDestino: cidadeDestino,
		PedagioValor:  pedagio,
		ChaveRefCte:   text(inf, ".//infCteComp/chCTe"),
		TpCte:         textDefault(inf, entity.TpCteNormal, "ide/tpCTe"),
		Arquivo:       arquivo,
	}

	registros := make([]*entity.Cte, 0, len(chaves))
	for _, chave := range chaves {
		r := base
		r.ChaveNF = strings.TrimSpace(chave)
		r.NumeroNFCte = fiscal.NumeroNFDaChave(r.ChaveNF)
		registros = append(registros, &r)
	}
	return registros, nil
}
