// Package gemini wraps the Google Gen AI SDK for the two outbound calls the
// auditor makes: a schema-constrained JSON generation and a free-text one.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"gbp-auditor/utils"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	jsonMIMEType       = "application/json"
	defaultTemperature = 0.7
)

// ErrEmptyResponse is returned when the service answers without any text.
var ErrEmptyResponse = errors.New("gemini: empty response")

// Config configures a Client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	RateLimitMs int

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// StructuredRequest is one schema-constrained generation call.
type StructuredRequest struct {
	Prompt      string
	Schema      *genai.Schema
	Temperature float32
}

// Client issues generation requests against a single model.
type Client struct {
	client   *genai.Client
	model    string
	throttle *utils.Throttle
	logger   *utils.Logger
}

// NewClient creates a Client. The API key is required.
func NewClient(ctx context.Context, cfg Config, logger *utils.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	if logger == nil {
		logger = utils.NewNopLogger()
	}

	return &Client{
		client:   client,
		model:    model,
		throttle: utils.NewThrottle(cfg.RateLimitMs),
		logger:   logger,
	}, nil
}

// Model returns the model identifier used for every call.
func (c *Client) Model() string { return c.model }

// GenerateJSON sends a prompt with an attached response schema and returns the
// raw JSON text. The text is not parsed here.
func (c *Client) GenerateJSON(ctx context.Context, req StructuredRequest) (string, error) {
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	return c.generate(ctx, "json", req.Prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   req.Schema,
		Temperature:      genai.Ptr(temperature),
	})
}

// GenerateText sends a plain prompt and returns the model's text unmodified.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, "text", prompt, nil)
}

func (c *Client) generate(ctx context.Context, kind, prompt string, gc *genai.GenerateContentConfig) (string, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return "", err
	}

	c.logger.Debug("[gemini] %s request to %s (%d prompt bytes)", kind, c.model, len(prompt))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), gc)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("[gemini] %s response from %s (%d bytes)", kind, c.model, len(text))
	return text, nil
}
