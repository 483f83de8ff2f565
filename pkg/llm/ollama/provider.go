package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"smartdraft-be/pkg/errs"
	"smartdraft-be/pkg/llm"
)

// OllamaProvider runs prompts against a local Ollama daemon.
type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements Generator
var _ llm.Generator = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		// No client-level timeout: the caller's context bounds the call, and
		// local generation may legitimately take minutes.
		Client: &http.Client{},
	}
}

// --- Request/Response structs (internal to this package) ---

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends one fully built prompt to the daemon and returns the raw
// generated text. Failures are tagged with errs kinds so the resilient
// invoker can decide what is worth retrying.
func (o *OllamaProvider) Complete(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7, // default
	}
	for _, opt := range opts {
		opt(options)
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
		},
	}
	if options.MaxTokens > 0 {
		reqPayload.Options.NumPredict = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", errs.Wrap(errs.KindMalformedRequest, "marshal request", err)
	}

	url := o.BaseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", errs.Wrap(errs.KindMalformedRequest, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", errs.Wrap(errs.KindTimeout, "model runtime timed out", err)
		}
		return "", errs.Wrap(errs.KindGenerationUnavailable, "model runtime unreachable", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.Wrap(errs.KindGenerationUnavailable, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, bodyBytes)
	}

	var ollamaResp ollamaGenerateResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return "", errs.Wrap(errs.KindGenerationUnavailable, "unmarshal response", err)
	}

	return strings.TrimSpace(ollamaResp.Response), nil
}

// classifyStatus maps daemon error responses onto the failure taxonomy.
// Ollama reports model-load OOM as a 500 mentioning memory; that class must
// not be retried since every attempt would fail identically.
func classifyStatus(status int, body []byte) error {
	lower := strings.ToLower(string(body))
	if strings.Contains(lower, "memory") || strings.Contains(lower, "oom") {
		return errs.New(errs.KindGenerationMemoryExhausted,
			"not enough memory to run the model")
	}
	return errs.Wrap(errs.KindGenerationUnavailable,
		"model runtime error",
		fmt.Errorf("ollama error: status %d, body: %s", status, string(body)))
}
