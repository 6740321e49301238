package llm

import (
	"context"
	"time"

	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/worker"
)

// Provider produces a review of a document. Its output is untrusted: every finding
// and insertion request must still pass validation and resolution.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the model requests are sent to
	Model() string

	// Review asks the generator for findings and insertion requests
	Review(ctx context.Context, req ReviewRequest) (*model.Review, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ReviewRequest contains the input for a review
type ReviewRequest struct {
	// Document is the full text under review
	Document string

	// Sections lists the document's named regions so the generator can use their names as hints
	Sections []model.Section

	// Instructions are appended to the default prompt (e.g. "focus on tone")
	Instructions string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Config holds generator client configuration
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	// Limiter throttles requests per endpoint host (nil = unthrottled)
	Limiter *worker.Limiter
}

// DefaultConfig returns defaults with the generator disabled
func DefaultConfig() Config {
	return Config{
		Timeout:   60 * time.Second,
		MaxTokens: 2000,
	}
}
