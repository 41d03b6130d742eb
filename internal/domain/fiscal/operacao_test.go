package fiscal_test

import (
	"testing"

	"github.com/jhoicas/leitor-fiscal/internal/domain/fiscal"
	"github.com/stretchr/testify/assert"
)

var proprios = map[string]bool{
	"11111111000100": true,
	"22222222000100": true,
}

func TestOperacao_Classificacao(t *testing.T) {
	// Emitente e destinatário próprios: movimentação entre filiais.
	assert.Equal(t, fiscal.OperacaoTransferencia,
		fiscal.Operacao("11111111000100", "22222222000100", proprios))
	// Só o emitente é próprio: saída para terceiro.
	assert.Equal(t, fiscal.OperacaoVenda,
		fiscal.Operacao("11111111000100", "99999999000199", proprios))
	// Só o destinatário é próprio: entrada de terceiro.
	assert.Equal(t, fiscal.OperacaoCompra,
		fiscal.Operacao("99999999000199", "22222222000100", proprios))
	// Nenhum dos dois: documento de terceiros.
	assert.Equal(t, fiscal.OperacaoOutros,
		fiscal.Operacao("99999999000199", "88888888000188", proprios))
}

// A comparação ignora a pontuação usual de CNPJ.
func TestOperacao_NormalizaCNPJ(t *testing.T) {
	assert.Equal(t, fiscal.OperacaoVenda,
		fiscal.Operacao("11.111.111/0001-00", "99999999000199", proprios))
}

func TestTipoFrete(t *testing.T) {
	assert.Equal(t, fiscal.FreteCIF, fiscal.TipoFrete("0"))
	assert.Equal(t, fiscal.FreteFOB, fiscal.TipoFrete("1"))
	assert.Equal(t, fiscal.FreteOutros, fiscal.TipoFrete("2"))
	assert.Equal(t, fiscal.FreteOutros, fiscal.TipoFrete("9"))
	assert.Equal(t, fiscal.FreteOutros, fiscal.TipoFrete(""))
}

func TestTraduzirEmpresa(t *testing.T) {
	dePara := map[string]string{"11111111000100": "Matriz SP"}

	assert.Equal(t, "Matriz SP",
		fiscal.TraduzirEmpresa("RAZAO SOCIAL LTDA", "11.111.111/0001-00", dePara))
	assert.Equal(t, "RAZAO SOCIAL LTDA",
		fiscal.TraduzirEmpresa("RAZAO SOCIAL LTDA", "99999999000199", dePara),
		"CNPJ fora do de-para mantém o nome declarado")
}
