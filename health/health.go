package health

import (
	"context"
	"fmt"
	"time"

	"github.com/desi-ai/desi-voice-interface/cache"
	"github.com/desi-ai/desi-voice-interface/config"
	"github.com/desi-ai/desi-voice-interface/llm"
	"github.com/desi-ai/desi-voice-interface/stt"
	"github.com/desi-ai/desi-voice-interface/tts"
)

// GetLLMStatus checks and returns the status of the LLM API as a formatted string.
func GetLLMStatus(client *llm.Client) string {
	if client == nil {
		return "ERROR: initialization failed"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		return fmt.Sprintf("ERROR: %v", err)
	}
	return "OK"
}

// GetCacheStatus checks and returns the status of a cache connection as a formatted string.
func GetCacheStatus(c cache.Cache, cfg *config.ConnectionConfig) string {
	if cfg == nil || cfg.Addr == "" {
		return "Not Configured"
	}
	if c == nil {
		return "ERROR: initialization failed"
	}
	if err := c.Ping(); err != nil {
		return fmt.Sprintf("ERROR: %v", err)
	}
	return "OK"
}

// GetSTTStatus returns the status of the speech-to-text client as a formatted string.
func GetSTTStatus(transcriber stt.Transcriber, cfg *config.VoiceConfig) string {
	if transcriber == nil {
		return fmt.Sprintf("Not Started (%s)", cfg.STTProvider)
	}
	// The transcriber has no ping endpoint, so initialized means OK.
	return fmt.Sprintf("OK (%s)", cfg.STTProvider)
}

// GetTTSStatus returns the status of the text-to-speech client as a formatted
// string. Voice comes up lazily, so a nil synthesizer is not an error.
func GetTTSStatus(synth tts.Synthesizer, cfg *config.VoiceConfig) string {
	if synth == nil {
		return fmt.Sprintf("Not Started (%s)", cfg.TTSProvider)
	}
	return fmt.Sprintf("OK (%s)", synth.Name())
}
