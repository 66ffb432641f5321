package stt

import (
	"context"
	"fmt"
	"strings"

	"github.com/desi-ai/desi-voice-interface/config"
	openai "github.com/sashabaranov/go-openai"
)

// Whisper transcribes audio through Groq's hosted Whisper endpoint, which
// speaks the OpenAI transcription API.
type Whisper struct {
	api   *openai.Client
	model string
}

// NewWhisper builds the default transcriber. It reuses the Groq key and base
// URL from the LLM config since both ride the same API.
func NewWhisper(llmCfg *config.LLMConfig, model string) (*Whisper, error) {
	if llmCfg.APIKey == "" {
		return nil, fmt.Errorf("missing API key for whisper transcription")
	}
	apiCfg := openai.DefaultConfig(llmCfg.APIKey)
	if llmCfg.BaseURL != "" {
		apiCfg.BaseURL = llmCfg.BaseURL
	}
	if model == "" {
		model = "whisper-large-v3-turbo"
	}
	return &Whisper{api: openai.NewClientWithConfig(apiCfg), model: model}, nil
}

// Transcribe sends the WAV file for transcription and returns the text.
func (w *Whisper) Transcribe(ctx context.Context, wavPath string) (string, error) {
	resp, err := w.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: wavPath,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (w *Whisper) Close() error { return nil }
