package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// ElevenLabs synthesizes speech through the ElevenLabs HTTP API. The voice
// field holds an ElevenLabs voice ID.
type ElevenLabs struct {
	httpClient *http.Client
	apiKey     string
	voice      string
}

// NewElevenLabs creates an ElevenLabs synthesizer.
func NewElevenLabs(apiKey, voice string) *ElevenLabs {
	return &ElevenLabs{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		voice:      voice,
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize renders the text to MP3 bytes.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cleaned := CleanText(text)
	if len([]rune(cleaned)) < 2 {
		return nil, nil
	}

	payload, err := json.Marshal(elevenLabsRequest{
		Text:    cleaned,
		ModelID: "eleven_multilingual_v2",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", elevenLabsBaseURL, e.voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send synthesis request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("elevenlabs returned %s: %s", resp.Status, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}
	return audio, nil
}
