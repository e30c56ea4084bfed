package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/finance-assistant/internal/logging"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON untouched",
			input:    `{"is_transaction": false}`,
			expected: `{"is_transaction": false}`,
		},
		{
			name:     "json fence stripped",
			input:    "```json\n{\"is_transaction\": true}\n```",
			expected: `{"is_transaction": true}`,
		},
		{
			name:     "bare fence stripped",
			input:    "```\n[1, 2, 3]\n```",
			expected: "[1, 2, 3]",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  \n {\"a\": 1} \n ",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanResponse(tt.input))
		})
	}
}

func TestGeminiClientUnconfigured(t *testing.T) {
	// No API key: the client must be created without error but report
	// itself unavailable, and refuse to generate.
	client, err := NewGeminiClient(context.Background(), "", "gemini-2.0-flash", 30*time.Second, &logging.MockLogger{})
	require.NoError(t, err)
	assert.False(t, client.Available())

	_, err = client.Generate(context.Background(), "hello")
	assert.Error(t, err)

	assert.NoError(t, client.Close())
}

func TestMockClient(t *testing.T) {
	mock := &MockClient{
		AvailableValue: true,
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "ok", nil
		},
	}

	out, err := mock.Generate(context.Background(), "prompt one")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, []string{"prompt one"}, mock.Prompts)
}
