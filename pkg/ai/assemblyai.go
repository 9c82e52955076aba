package ai

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

// AssemblyAITranscriber transcribes audio through the official AssemblyAI
// SDK: upload the stream, wait for the transcript, join utterance texts.
type AssemblyAITranscriber struct {
	client *aai.Client
}

// NewAssemblyAITranscriber creates a transcriber using the provided
// config. If cfg is nil, falls back to environment variables.
func NewAssemblyAITranscriber(cfg *config.ModelsConfig) *AssemblyAITranscriber {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.AssemblyAIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &AssemblyAITranscriber{
		client: aai.NewClient(apiKey),
	}
}

// Transcribe uploads the audio stream and blocks until AssemblyAI has
// produced a transcript. Speaker utterances, when present, are joined with
// single spaces; a transcript with no speech is an error.
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audio io.Reader, name string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	transcript, err := t.client.Transcripts.TranscribeFromReader(ctx, audio, params)
	if err != nil {
		return "", fmt.Errorf("transcribing %s: %w", name, err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "transcription failed"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("transcribing %s: %s", name, msg)
	}

	var parts []string
	if len(transcript.Utterances) > 0 {
		for _, utt := range transcript.Utterances {
			if utt.Text != nil && *utt.Text != "" {
				parts = append(parts, *utt.Text)
			}
		}
	} else if transcript.Text != nil {
		parts = append(parts, *transcript.Text)
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return "", fmt.Errorf("transcribing %s: no speech segments", name)
	}
	return text, nil
}
