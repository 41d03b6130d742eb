package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appgeo "github.com/jhoicas/leitor-fiscal/internal/application/geo"
)

var _ appgeo.Router = (*OSRMClient)(nil)

// OSRMClient adaptador de roteamento (lat,lon)×2 → distância em km sobre a
// API route do OSRM.
type OSRMClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOSRMClient constrói o adaptador.
func NewOSRMClient(baseURL string, timeout time.Duration) *OSRMClient {
	return &OSRMClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // metros
	} `json:"routes"`
}

// Distancia calcula a distância rodoviária em km entre dois pontos.
func (c *OSRMClient) Distancia(ctx context.Context, lat1, lon1, lat2, lon2 float64) (float64, error) {
	// OSRM usa ordem lon,lat nas coordenadas.
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		c.baseURL, lon1, lat1, lon2, lat2)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("rota: montar request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rota: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rota: status %d", resp.StatusCode)
	}

	var out osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("rota: decodificar resposta: %w", err)
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return 0, fmt.Errorf("rota: resposta %q sem rotas", out.Code)
	}
	return out.Routes[0].Distance / 1000, nil
}
