// Package fallback answers questions the rule engine does not recognize by
// forwarding them to a local language model.
package fallback

import (
	"context"
	"time"

	"github.com/spektr-org/ratelens/engine"
)

// ============================================================================
// FALLBACK — General-purpose responder for Unhandled questions
// ============================================================================
// This is the only component that talks to an external model. It receives
// the question and, optionally, the dataset summary. It never sees records.
// ============================================================================

// Responder produces a free-text reply to a question.
type Responder interface {
	Respond(ctx context.Context, question string, summary *engine.Summary) (string, error)
}

// Config holds responder settings.
type Config struct {
	URL     string        // generate endpoint
	Model   string        // model name
	Timeout time.Duration // per-request timeout
}

// DefaultConfig targets a local Ollama install.
func DefaultConfig() Config {
	return Config{
		URL:     "http://localhost:11434/api/generate",
		Model:   "llama3.2",
		Timeout: 60 * time.Second,
	}
}

// Canned is the reply used when no responder is configured.
const Canned = "I can answer questions about car rental rates in your uploaded data. " +
	"Try asking about the cheapest car on a date, average prices by category, or comparing suppliers."
