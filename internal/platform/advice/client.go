// Package advice asks a text-generation endpoint for financial advice.
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

const (
	serviceName = "advice"

	promptTemplate = "User has total income %s and total expenses %s. Current balance: %s. Provide specific financial advice."

	// ErrNoAdviceMessage is returned when the model produced no text
	ErrNoAdviceMessage = "No advice available due to AI error"

	maxResponseBytes = 1 << 20
)

// Summary is the financial position the advice is asked for, already formatted
type Summary struct {
	TotalIncome   string
	TotalExpenses string
	Balance       string
}

// Prompt renders the question sent to the model
func (s Summary) Prompt() string {
	return fmt.Sprintf(promptTemplate, s.TotalIncome, s.TotalExpenses, s.Balance)
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Client calls a generate endpoint that accepts {model, prompt} and answers {response}
type Client struct {
	httpClient *http.Client
	url        string
	model      string
	apiKey     string
	logger     *slog.Logger
}

// NewClient creates a new advice client
func NewClient(cfg config.AdviceConfig, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// Advise returns the generated advice text for the summary
func (c *Client) Advise(ctx context.Context, summary Summary) (string, error) {
	prompt := summary.Prompt()
	c.logger.Debug("Requesting advice", "model", c.model, "prompt", prompt)

	payload, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal advice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &shared.ExternalServiceError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &shared.ExternalServiceError{Service: serviceName, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &shared.ExternalServiceError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &shared.DecodeError{Service: serviceName, Message: "Failed to parse JSON", Err: err}
	}

	if strings.TrimSpace(out.Response) == "" {
		c.logger.Warn("Model returned empty advice", "model", c.model)
		return "", &shared.ExternalServiceError{Service: serviceName, Message: ErrNoAdviceMessage}
	}

	return out.Response, nil
}
