package transcribe

import (
	"context"
	"io"
	"strings"
)

// Fixed fallback texts. The audio pipeline degrades to these instead of
// failing the request when the provider is missing or unusable; the client
// UI must never hard-fail on the voice-note feature being unavailable.
const (
	NoCredentialTranscript = "Audio processing requires OpenAI API key. Please contact support."
	NoCredentialSummary    = "Audio processing service is not properly configured."
	FallbackTranscript     = "Could not understand audio. Please try again with clearer speech."
)

// Transcriber converts recorded speech into text. Implementations call an
// external provider; the provider's internals are out of scope here.
type Transcriber interface {
	// Transcribe returns the transcript for the audio stream. filename is
	// the client-side name, used for content-type hints.
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
	// Configured reports whether a provider credential is available.
	Configured() bool
}

// Degrade maps a provider result onto the transcript the pipeline continues
// with. Empty transcripts and provider-side "could not understand" phrasings
// collapse into the fixed fallback text.
func Degrade(transcript string, err error) string {
	if err != nil {
		return FallbackTranscript
	}
	t := strings.TrimSpace(transcript)
	if t == "" {
		return FallbackTranscript
	}
	lower := strings.ToLower(t)
	if strings.Contains(lower, "could not understand") || strings.Contains(lower, "unclear") {
		return FallbackTranscript
	}
	return t
}
