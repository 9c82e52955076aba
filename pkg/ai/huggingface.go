package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

// HFClient is a minimal client for the Hugging Face Inference API. It
// covers the three task shapes the pipeline needs: summarization,
// text2text generation and token classification.
type HFClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHFClient creates a Hugging Face client using values from the
// provided config. Pass a nil config to fall back to environment variables.
func NewHFClient(cfg *config.ModelsConfig) *HFClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.HFAPIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("HF_API_KEY")
	}

	var base string
	if cfg != nil && cfg.HFBaseURL != "" {
		base = cfg.HFBaseURL
	} else {
		base = os.Getenv("HF_BASE_URL")
		if base == "" {
			base = "https://api-inference.huggingface.co"
		}
	}

	timeout := 120 * time.Second
	if cfg != nil && cfg.RequestTimeout > 0 {
		timeout = cfg.RequestTimeout
	}

	return &HFClient{
		apiKey:  apiKey,
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}
}

// summarizationRequest is the payload shape for summarization models
type summarizationRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters summarizationParams `json:"parameters"`
}

type summarizationParams struct {
	MinLength int  `json:"min_length,omitempty"`
	MaxLength int  `json:"max_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type summarizationResponse struct {
	SummaryText string `json:"summary_text"`
}

// generationRequest is the payload shape for text2text-generation models
type generationRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters generationParams `json:"parameters"`
}

type generationParams struct {
	MaxLength int  `json:"max_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type generationResponse struct {
	GeneratedText string `json:"generated_text"`
}

// nerRequest is the payload shape for token-classification models
type nerRequest struct {
	Inputs     string    `json:"inputs"`
	Parameters nerParams `json:"parameters"`
}

type nerParams struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

// Entity is one aggregated entity span from a token-classification model
type Entity struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
}

// Summarize runs the given summarization model over text and returns the
// generated summary. Output length is bounded by min/max token lengths.
func (h *HFClient) Summarize(ctx context.Context, model, text string, minLen, maxLen int) (string, error) {
	body := summarizationRequest{
		Inputs: text,
		Parameters: summarizationParams{
			MinLength: minLen,
			MaxLength: maxLen,
			DoSample:  false,
		},
	}

	var out []summarizationResponse
	if err := h.post(ctx, model, body, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return out[0].SummaryText, nil
}

// Generate runs a text2text-generation model over the prompt and returns
// the raw generated text.
func (h *HFClient) Generate(ctx context.Context, model, prompt string, maxLen int) (string, error) {
	body := generationRequest{
		Inputs: prompt,
		Parameters: generationParams{
			MaxLength: maxLen,
			DoSample:  false,
		},
	}

	var out []generationResponse
	if err := h.post(ctx, model, body, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return out[0].GeneratedText, nil
}

// TokenClassify runs a token-classification model over text and returns
// aggregated entity spans.
func (h *HFClient) TokenClassify(ctx context.Context, model, text string) ([]Entity, error) {
	body := nerRequest{
		Inputs:     text,
		Parameters: nerParams{AggregationStrategy: "simple"},
	}

	var out []Entity
	if err := h.post(ctx, model, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// post sends a JSON inference request and decodes the response into out.
// The Inference API answers 503 while a model is loading; those are
// retried with exponential backoff inside the request deadline.
func (h *HFClient) post(ctx context.Context, model string, payload interface{}, out interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := h.baseURL + "/models/" + model

	callFn := func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := h.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusServiceUnavailable {
			return fmt.Errorf("model %s is loading", model)
		}
		if resp.StatusCode >= 400 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("model %s returned status %d: %s", model, resp.StatusCode, msg))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response from %s: %w", model, err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 20 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute

	return backoff.Retry(callFn, backoff.WithContext(bo, ctx))
}
