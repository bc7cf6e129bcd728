package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spektr-org/ratelens/engine"
)

// ============================================================================
// OLLAMA RESPONDER
// ============================================================================

// Ollama implements Responder against the Ollama generate API.
type Ollama struct {
	config Config
	client *http.Client
	log    *zap.Logger
}

// NewOllama creates a responder. Empty config fields take defaults.
func NewOllama(cfg Config, log *zap.Logger) *Ollama {
	def := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ollama{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Respond sends one non-streaming generate request.
func (o *Ollama) Respond(ctx context.Context, question string, summary *engine.Summary) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  o.config.Model,
		Prompt: BuildPrompt(question, summary),
		Stream: false,
	})
	if err != nil {
		return "", eris.Wrap(err, "fallback: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.config.URL, bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "fallback: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	o.log.Debug("🔄 fallback request",
		zap.String("model", o.config.Model),
		zap.String("question", engine.Truncate(question, 80)),
	)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "fallback: connect")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "fallback: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("fallback: status %d: %s", resp.StatusCode, engine.Truncate(string(raw), 200))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", eris.Wrap(err, "fallback: decode response")
	}
	if out.Error != "" {
		return "", eris.Errorf("fallback: model error: %s", out.Error)
	}
	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "Sorry, I could not generate a response.", nil
	}
	return text, nil
}

