package ai

import (
	"context"
	"io"
)

// Transcriber converts a finite audio byte stream into plain transcript
// text: segment texts joined by single spaces, surrounding whitespace
// trimmed. Implementations return an error when the audio cannot be
// decoded or yields no speech.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, name string) (string, error)
}
