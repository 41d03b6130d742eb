package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClienteGeo guarda o endereço e as coordenadas resolvidas de um
// destinatário, chaveado pelo CNPJ. Criado pendente na primeira NF-e que
// referencia o cliente; Latitude/Longitude/Distancia são preenchidas pelo
// worker em segundo plano — a ingestão nunca bloqueia nessa resolução.
type ClienteGeo struct {
	CNPJ          string
	Nome          string
	Endereco      string
	Cidade        string
	UF            string
	CEP           string
	Latitude      decimal.Decimal
	Longitude     decimal.Decimal
	Distancia     decimal.Decimal // km a partir da origem configurada
	Geocodificado bool
	UpdatedAt     time.Time
}
