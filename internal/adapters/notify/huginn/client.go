package huginn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"breeding-scheduler/internal/platform/httpclient"
	"breeding-scheduler/internal/ports/notify"

	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured = errors.New("huginn client not configured")
	ErrRejected      = errors.New("huginn rejected message")
	ErrUpstream      = errors.New("huginn upstream error")
)

// Config del cliente Huginn (servicio externo de entrega de mensajes).
// BaseURL y APIKey normalmente vienen de env vars en quien lo instancia.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header donde va la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	// Timeout HTTP por request.
	Timeout time.Duration

	// SendsPerSecond acota el ritmo de salida hacia Huginn.
	// <=0 => 5 por segundo.
	SendsPerSecond float64
}

type Client struct {
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
	limiter      *rate.Limiter
}

var _ notify.Notifier = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	rps := cfg.SendsPerSecond
	if rps <= 0 {
		rps = 5
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         hc,
		limiter:      rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// sendRequest es el payload que Huginn espera en POST /v1/messages.
type sendRequest struct {
	RecipientID string            `json:"recipient_id"`
	Email       string            `json:"email,omitempty"`
	TemplateKey string            `json:"template_key"`
	Params      map[string]string `json:"params,omitempty"`
}

// Send entrega un mensaje vía Huginn. El caller decide qué significa el error
// (el scanner no marca el ledger si esto falla). Respeta el rate limit y el
// deadline del ctx: un timeout cuenta como fallo.
func (c *Client) Send(ctx context.Context, msg notify.Message) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(msg.RecipientID) == "" || strings.TrimSpace(msg.TemplateKey) == "" {
		return fmt.Errorf("%w: recipient and template required", ErrRejected)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	headers := map[string]string{
		c.apiKeyHeader: c.apiKey,
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/messages", headers, sendRequest{
		RecipientID: msg.RecipientID,
		Email:       msg.Email,
		TemplateKey: msg.TemplateKey,
		Params:      msg.Params,
	}, nil)
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
			return fmt.Errorf("%w: status=%d", ErrRejected, httpErr.StatusCode)
		}
		return fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
