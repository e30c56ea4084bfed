// Package ai provides the Completion Service boundary: a single-shot
// text/vision generation oracle used by the extractor, the receipt scanner
// and the advisor.
package ai

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned by callers of Client when the completion
// service is unavailable. No network call is made in that case.
var ErrNotConfigured = errors.New("completion service not configured")

// Client is the interface to an external completion service. Callers must
// probe Available before use; an unconfigured client reports itself
// unavailable instead of failing at call time.
type Client interface {
	// Available reports whether the service is configured and usable.
	Available() bool

	// Generate sends a prompt and returns the raw completion text.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateWithImage sends a prompt together with an embedded image.
	// format is the image format without the leading "image/" (e.g. "jpeg").
	GenerateWithImage(ctx context.Context, prompt string, format string, image []byte) (string, error)
}

// CleanResponse strips Markdown code-fence wrapping from a completion.
// Models are instructed to return raw structured data, but they do not
// always comply.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return strings.Trim(s, "`")
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
