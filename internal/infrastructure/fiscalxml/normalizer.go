// Package fiscalxml lê documentos fiscais XML (NF-e e CT-e) de forma
// defensiva: parsing permissivo, charset declarado respeitado, e acesso a
// nós ausentes devolvendo valor vazio em vez de abortar o documento.
package fiscalxml

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html/charset"
)

// parseDocument interpreta os bytes crus com parser permissivo. Documentos
// com encoding declarado fora de UTF-8 (comum em emissores legados) passam
// pelo leitor de charset; markup parcialmente quebrado não derruba o parse.
func parseDocument(raw []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, err
	}
	return doc, nil
}

// text devolve o texto do primeiro caminho existente e não vazio.
// Caminhos sem prefixo de namespace casam com qualquer namespace, então a
// navegação ignora os prefixos heterogêneos dos emissores.
func text(el *etree.Element, paths ...string) string {
	if el == nil {
		return ""
	}
	for _, p := range paths {
		if found := el.FindElement(p); found != nil {
			if t := strings.TrimSpace(found.Text()); t != "" {
				return t
			}
		}
	}
	return ""
}

// textDefault como text, com valor default quando todos os caminhos falham.
func textDefault(el *etree.Element, def string, paths ...string) string {
	if t := text(el, paths...); t != "" {
		return t
	}
	return def
}

// num converte o texto do caminho para decimal. Vírgula decimal é aceita
// (padrão brasileiro); ausência ou texto não numérico devolve zero.
func num(el *etree.Element, path string) decimal.Decimal {
	return parseDecimal(text(el, path))
}

// sumNum soma a conversão numérica de todos os nós que casam com o caminho.
// Cobre o caso de campo escalar ou lista (ex.: múltiplos volumes).
func sumNum(el *etree.Element, path string) decimal.Decimal {
	total := decimal.Zero
	if el == nil {
		return total
	}
	for _, n := range el.FindElements(path) {
		total = total.Add(parseDecimal(strings.TrimSpace(n.Text())))
	}
	return total
}

// parseDecimal interpreta um número fiscal; falha de coerção vira zero,
// nunca erro propagado.
func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
