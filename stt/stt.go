package stt

import (
	"context"
	"fmt"

	"github.com/desi-ai/desi-voice-interface/config"
)

// Transcriber converts a recorded WAV file to text. An empty string with a
// nil error means no speech was detected.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
	Close() error
}

// New selects a transcriber based on the configured provider.
func New(voiceCfg *config.VoiceConfig, llmCfg *config.LLMConfig) (Transcriber, error) {
	switch voiceCfg.STTProvider {
	case "whisper":
		return NewWhisper(llmCfg, voiceCfg.WhisperModel)
	case "google":
		return NewGoogle(llmCfg.Language)
	default:
		return nil, fmt.Errorf("unknown stt provider %q", voiceCfg.STTProvider)
	}
}

// languageCode maps a session language to a BCP-47 recognition code.
func languageCode(language string) string {
	switch language {
	case "hindi":
		return "hi-IN"
	case "urdu":
		return "ur-IN"
	default:
		return "en-IN"
	}
}
