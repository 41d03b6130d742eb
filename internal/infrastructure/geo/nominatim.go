// Package geo implementa os adaptadores de geocodificação e roteamento
// (provedores externos HTTP). Falha ou timeout degradam para "desconhecido":
// o chamador deixa o registro pendente e tenta na próxima passada.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	appgeo "github.com/jhoicas/leitor-fiscal/internal/application/geo"
)

var _ appgeo.Geocoder = (*NominatimClient)(nil)

// NominatimClient adaptador de geocodificação endereço → (lat, lon) sobre a
// API de busca do Nominatim (ou instância compatível auto-hospedada).
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatimClient constrói o adaptador. timeout limita cada chamada; o
// worker ainda impõe o próprio context.WithTimeout por registro.
func NewNominatimClient(baseURL string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolve o endereço para coordenadas. Resultado vazio é erro — o
// registro fica pendente, nunca gravado com (0,0) como se fosse resolvido.
func (c *NominatimClient) Geocode(ctx context.Context, endereco string) (lat, lon float64, err error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("countrycodes", "br")
	q.Set("q", endereco)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode: montar request: %w", err)
	}
	// Identificação exigida pela política de uso do Nominatim público.
	req.Header.Set("User-Agent", "leitor-fiscal/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", endereco, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode %q: status %d", endereco, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("geocode %q: decodificar resposta: %w", endereco, err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("geocode %q: sem resultados", endereco)
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, fmt.Errorf("geocode %q: coordenadas inválidas", endereco)
	}
	return lat, lon, nil
}
