// Package fiscal reúne as regras puras do domínio fiscal brasileiro:
// chave de acesso, CNPJ, classificação de operação, região e formatação
// de exibição pt-BR. Sem I/O e sem dependência de persistência.
package fiscal

import (
	"strconv"
	"strings"
)

// ChaveLen tamanho da chave de acesso de NF-e e CT-e.
const ChaveLen = 44

// LimparCNPJ remove tudo que não for dígito (CNPJ ou CPF).
func LimparCNPJ(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ChaveValida devolve true quando a chave tem exatamente 44 dígitos.
func ChaveValida(chave string) bool {
	if len(chave) != ChaveLen {
		return false
	}
	for _, r := range chave {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NumeroNFDaChave extrai o número da nota das posições 25..34 da chave de
// acesso, sem zeros à esquerda. Chave inválida devolve string vazia.
func NumeroNFDaChave(chave string) string {
	chave = strings.TrimSpace(chave)
	if !ChaveValida(chave) {
		return ""
	}
	n, err := strconv.Atoi(chave[25:34])
	if err != nil {
		return ""
	}
	return strconv.Itoa(n)
}
