package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CobrancaPayload is posted to the notification gateway (WhatsApp/SMS
// sidecar) when a conta mensal goes overdue or gets blocked.
type CobrancaPayload struct {
	ContaID   string  `json:"conta_id"`
	Cliente   string  `json:"cliente"`
	Telefone  *string `json:"telefone,omitempty"`
	Saldo     string  `json:"saldo"`
	DiasCiclo int     `json:"dias_ciclo"`
	Bloqueada bool    `json:"bloqueada"`
}

// CobrancaResponse is returned by the gateway after dispatching the notice.
type CobrancaResponse struct {
	Status   string `json:"status"` // "enviado" | "falha"
	Mensagem string `json:"mensagem,omitempty"`
}

// CobrancaClient delegates customer notification to an external gateway so
// messaging failures never touch the core backend.
type CobrancaClient struct {
	gatewayURL string
	httpClient *http.Client
}

func NewCobrancaClient(gatewayURL string) *CobrancaClient {
	return &CobrancaClient{
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Notificar sends a POST to the gateway and returns its dispatch result.
func (c *CobrancaClient) Notificar(ctx context.Context, payload CobrancaPayload) (*CobrancaResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("cobranca: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/notificar", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cobranca: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cobranca: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cobranca: gateway returned %d", resp.StatusCode)
	}

	var result CobrancaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("cobranca: decode response: %w", err)
	}
	return &result, nil
}
