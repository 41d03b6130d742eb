// Package geo implementa o worker de geocodificação em segundo plano:
// resolve coordenadas de destinatários pendentes e a distância rodoviária
// das notas, sem nunca bloquear o fluxo de ingestão.
package geo

import "context"

// Geocoder resolve um endereço em coordenadas. Implementado pelo adaptador
// Nominatim; ausência de resultado é erro, não coordenada (0,0).
type Geocoder interface {
	Geocode(ctx context.Context, endereco string) (lat, lon float64, err error)
}

// Router calcula a distância rodoviária em km entre dois pontos.
// Implementado pelo adaptador OSRM.
type Router interface {
	Distancia(ctx context.Context, lat1, lon1, lat2, lon2 float64) (float64, error)
}
