package fiscal

import "strings"

// Regiões geográficas do Brasil usadas no bucketing analítico.
const (
	RegiaoSul         = "Sul"
	RegiaoSudeste     = "Sudeste"
	RegiaoCentroOeste = "Centro-Oeste"
	RegiaoNorte       = "Norte"
	RegiaoNordeste    = "Nordeste"
)

// Coordenada par latitude/longitude do centroide de uma UF.
type Coordenada struct {
	Lat float64
	Lon float64
}

// UFCoords centroides aproximados por UF, usados como fallback de
// geocodificação e centro de mapa.
var UFCoords = map[string]Coordenada{
	"AC": {-8.77, -70.55}, "AL": {-9.62, -36.82}, "AM": {-3.65, -64.75}, "AP": {1.41, -51.77},
	"BA": {-12.96, -38.51}, "CE": {-3.71, -38.54}, "DF": {-15.78, -47.93}, "ES": {-20.31, -40.31},
	"GO": {-16.64, -49.31}, "MA": {-2.55, -44.30}, "MG": {-18.10, -44.38}, "MS": {-20.51, -54.54},
	"MT": {-12.64, -55.42}, "PA": {-5.53, -52.29}, "PB": {-7.06, -35.55}, "PE": {-8.28, -35.07},
	"PI": {-8.28, -43.68}, "PR": {-24.89, -51.55}, "RJ": {-22.84, -43.15}, "RN": {-5.22, -36.52},
	"RO": {-11.22, -62.80}, "RR": {1.99, -61.33}, "RS": {-30.01, -51.22}, "SC": {-27.33, -49.44},
	"SE": {-10.90, -37.07}, "SP": {-23.55, -46.64}, "TO": {-10.25, -48.25},
}

var (
	ufsSul         = map[string]bool{"RS": true, "SC": true, "PR": true}
	ufsSudeste     = map[string]bool{"SP": true, "MG": true, "RJ": true, "ES": true}
	ufsCentroOeste = map[string]bool{"MT": true, "MS": true, "GO": true, "DF": true}
	ufsNorte       = map[string]bool{"AM": true, "RR": true, "AP": true, "PA": true, "TO": true, "RO": true, "AC": true}
)

// Regiao mapeia a sigla de UF para a região. Códigos fora da tabela caem em
// Nordeste, em paridade com o dashboard legado que este dataset alimenta.
func Regiao(uf string) string {
	uf = strings.ToUpper(strings.TrimSpace(uf))
	switch {
	case ufsSul[uf]:
		return RegiaoSul
	case ufsSudeste[uf]:
		return RegiaoSudeste
	case ufsCentroOeste[uf]:
		return RegiaoCentroOeste
	case ufsNorte[uf]:
		return RegiaoNorte
	default:
		return RegiaoNordeste
	}
}

// UFDeCidade extrai a UF de um par "Cidade-UF"; sem separador devolve "ND".
func UFDeCidade(cidadeUF string) string {
	if idx := strings.LastIndex(cidadeUF, "-"); idx >= 0 {
		return strings.TrimSpace(cidadeUF[idx+1:])
	}
	return "ND"
}
