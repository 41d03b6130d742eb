package fiscal_test

import (
	"testing"

	"github.com/jhoicas/leitor-fiscal/internal/domain/fiscal"
	"github.com/stretchr/testify/assert"
)

func TestRegiao_MapeiaTodasAsRegioes(t *testing.T) {
	casos := map[string]string{
		"RS": fiscal.RegiaoSul,
		"PR": fiscal.RegiaoSul,
		"SP": fiscal.RegiaoSudeste,
		"ES": fiscal.RegiaoSudeste,
		"GO": fiscal.RegiaoCentroOeste,
		"DF": fiscal.RegiaoCentroOeste,
		"AM": fiscal.RegiaoNorte,
		"TO": fiscal.RegiaoNorte,
		"BA": fiscal.RegiaoNordeste,
		"CE": fiscal.RegiaoNordeste,
	}
	for uf, esperado := range casos {
		assert.Equal(t, esperado, fiscal.Regiao(uf), "UF %s", uf)
	}
}

// Códigos desconhecidos (incluindo "ND") caem em Nordeste, em paridade com o
// dashboard que consome o dataset.
func TestRegiao_DesconhecidoCaiEmNordeste(t *testing.T) {
	assert.Equal(t, fiscal.RegiaoNordeste, fiscal.Regiao("ND"))
	assert.Equal(t, fiscal.RegiaoNordeste, fiscal.Regiao("XX"))
	assert.Equal(t, fiscal.RegiaoNordeste, fiscal.Regiao(""))
}

func TestRegiao_NormalizaCaixaEEspacos(t *testing.T) {
	assert.Equal(t, fiscal.RegiaoSudeste, fiscal.Regiao(" sp "))
}

func TestUFDeCidade(t *testing.T) {
	assert.Equal(t, "SP", fiscal.UFDeCidade("CAMPINAS-SP"))
	assert.Equal(t, "MS", fiscal.UFDeCidade("CAMPO-GRANDE-MS"), "último hífen separa a UF")
	assert.Equal(t, "RJ", fiscal.UFDeCidade("Rio de Janeiro - RJ"))
	assert.Equal(t, "ND", fiscal.UFDeCidade("FORTALEZA"), "sem separador não há UF")
	assert.Equal(t, "ND", fiscal.UFDeCidade(""))
}

func TestUFCoords_CobreTodasAsUFs(t *testing.T) {
	assert.Len(t, fiscal.UFCoords, 27)
	c, ok := fiscal.UFCoords["SP"]
	assert.True(t, ok)
	assert.InDelta(t, -23.55, c.Lat, 0.01)
}
