package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Options configures the OpenAI transcription client.
type Options struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	Prompt   string
	Timeout  time.Duration
}

// OpenAIClient calls the OpenAI audio transcription endpoint. The meetings
// this service records are Dutch, so the default prompt and language steer
// the model accordingly.
type OpenAIClient struct {
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenAIClient creates a transcription client. Zero option fields fall
// back to the service defaults.
func NewOpenAIClient(opts Options, logger *slog.Logger) *OpenAIClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	if opts.Model == "" {
		opts.Model = "whisper-1"
	}
	if opts.Language == "" {
		opts.Language = "nl"
	}
	if opts.Prompt == "" {
		opts.Prompt = "This is a Dutch business meeting about project management and task updates."
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		opts:       opts,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Configured reports whether an API key is set.
func (c *OpenAIClient) Configured() bool {
	return c.opts.APIKey != ""
}

// KeyPreview returns a redacted preview of the configured credential.
func (c *OpenAIClient) KeyPreview() string {
	if c.opts.APIKey == "" {
		return "Not set"
	}
	if len(c.opts.APIKey) <= 10 {
		return c.opts.APIKey + "..."
	}
	return c.opts.APIKey[:10] + "..."
}

// Transcribe sends the audio to the transcription endpoint and returns the
// plain-text transcript. The call is bounded by the configured timeout; a
// hang at the provider must not block a request indefinitely.
func (c *OpenAIClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("transcription credential not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	for field, value := range map[string]string{
		"model":           c.opts.Model,
		"language":        c.opts.Language,
		"response_format": "text",
		"prompt":          c.opts.Prompt,
	} {
		if err := mw.WriteField(field, value); err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	url := strings.TrimRight(c.opts.BaseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("transcription provider error", "status", resp.StatusCode)
		return "", fmt.Errorf("transcription provider returned status %d", resp.StatusCode)
	}

	return strings.TrimSpace(string(data)), nil
}
