package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// WhisperTranscriber transcribes audio through a hosted whisper model on
// the Hugging Face Inference API. Raw audio bytes go up as-is; the API
// handles container/codec decoding.
type WhisperTranscriber struct {
	hf    *HFClient
	model string
}

// NewWhisperTranscriber creates a transcriber over an existing HF client.
func NewWhisperTranscriber(hf *HFClient, model string) *WhisperTranscriber {
	return &WhisperTranscriber{hf: hf, model: model}
}

// asrResponse is the ASR task response shape. Chunks are present when the
// endpoint returns timestamped segments.
type asrResponse struct {
	Text   string `json:"text"`
	Chunks []struct {
		Text string `json:"text"`
	} `json:"chunks"`
}

// Transcribe uploads the audio bytes and returns the transcript: segment
// texts joined with single spaces, surrounding whitespace trimmed.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio io.Reader, name string) (string, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("transcribing %s: empty audio stream", name)
	}

	endpoint := t.hf.baseURL + "/models/" + t.model

	var out asrResponse
	callFn := func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+t.hf.apiKey)
		req.Header.Set("Content-Type", "application/octet-stream")

		resp, err := t.hf.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusServiceUnavailable {
			return fmt.Errorf("model %s is loading", t.model)
		}
		if resp.StatusCode >= 400 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("model %s returned status %d: %s", t.model, resp.StatusCode, msg))
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding ASR response: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 20 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute

	if err := backoff.Retry(callFn, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("transcribing %s: %w", name, err)
	}

	var parts []string
	for _, c := range out.Chunks {
		if s := strings.TrimSpace(c.Text); s != "" {
			parts = append(parts, s)
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		text = strings.TrimSpace(out.Text)
	}
	if text == "" {
		return "", fmt.Errorf("transcribing %s: no speech segments", name)
	}
	return text, nil
}
