package ai

import "context"

// MockClient is a scriptable Client implementation for tests.
type MockClient struct {
	AvailableValue    bool
	GenerateFunc      func(ctx context.Context, prompt string) (string, error)
	GenerateImageFunc func(ctx context.Context, prompt string, format string, image []byte) (string, error)

	// Prompts records every prompt passed to Generate or GenerateWithImage.
	Prompts []string
}

func (m *MockClient) Available() bool {
	return m.AvailableValue
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", nil
}

func (m *MockClient) GenerateWithImage(ctx context.Context, prompt string, format string, image []byte) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt, format, image)
	}
	return "", nil
}
