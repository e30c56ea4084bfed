package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/finance-assistant/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client against the Google Gemini API.
// A client built without an API key is valid but reports Available()==false
// and never attempts a network call.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiClient creates a Gemini-backed completion client. When apiKey is
// empty the returned client is unavailable rather than an error, so the rest
// of the application keeps working without the AI features.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, logger logging.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	if strings.TrimSpace(apiKey) == "" {
		logger.Debug("No Gemini API key configured, AI features disabled")
		return &GeminiClient{timeout: timeout, logger: logger}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   client.GenerativeModel(model),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Available reports whether the client holds a configured Gemini model.
func (c *GeminiClient) Available() bool {
	return c != nil && c.model != nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Generate sends a text prompt and returns the completion text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, genai.Text(prompt))
}

// GenerateWithImage sends a prompt with an embedded image.
func (c *GeminiClient) GenerateWithImage(ctx context.Context, prompt string, format string, image []byte) (string, error) {
	return c.generate(ctx, genai.Text(prompt), genai.ImageData(format, image))
}

func (c *GeminiClient) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("gemini client not configured")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		fmt.Fprintf(&b, "%v", part)
	}

	c.logger.WithField(logging.FieldOperation, "generate").Debug("Received completion from Gemini")

	return b.String(), nil
}
