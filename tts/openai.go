package tts

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI synthesizes speech through the OpenAI speech endpoint.
type OpenAI struct {
	api   *openai.Client
	voice openai.SpeechVoice
}

var openAIVoices = map[string]openai.SpeechVoice{
	"alloy":   openai.VoiceAlloy,
	"echo":    openai.VoiceEcho,
	"fable":   openai.VoiceFable,
	"onyx":    openai.VoiceOnyx,
	"nova":    openai.VoiceNova,
	"shimmer": openai.VoiceShimmer,
}

// NewOpenAI creates an OpenAI synthesizer. Voices that are not OpenAI voice
// names (for example Edge neural voices) fall back to onyx.
func NewOpenAI(apiKey, voice string) *OpenAI {
	v, ok := openAIVoices[voice]
	if !ok {
		v = openai.VoiceOnyx
	}
	return &OpenAI{api: openai.NewClient(apiKey), voice: v}
}

func (o *OpenAI) Name() string { return "openai" }

// Synthesize renders the text to MP3 bytes.
func (o *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cleaned := CleanText(text)
	if len([]rune(cleaned)) < 2 {
		return nil, nil
	}

	resp, err := o.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: cleaned,
		Voice: o.voice,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech synthesis failed: %w", err)
	}
	defer func() { _ = resp.Close() }()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}
	return audio, nil
}
